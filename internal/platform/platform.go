// Package platform answers questions about the host system and runs the few
// OS-level actions the client needs.
package platform

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrUnsupported is returned for operations this platform cannot perform.
var ErrUnsupported = errors.ErrUnsupported

// DefaultInstallPath is where packaged builds live.
const DefaultInstallPath = "/usr/lib/relaydesk"

// Host inspects the running system. The function fields default to the os
// package and are replaced in tests.
type Host struct {
	GOOS       string
	Getenv     func(string) string
	Stat       func(string) (fs.FileInfo, error)
	ReadFile   func(string) ([]byte, error)
	Executable func() (string, error)
	Geteuid    func() int
	LookPath   func(string) (string, error)
	Output     func(name string, args ...string) ([]byte, error)
}

// Local returns a Host backed by the real system.
func Local() *Host {
	return &Host{
		GOOS:       runtime.GOOS,
		Getenv:     os.Getenv,
		Stat:       os.Stat,
		ReadFile:   os.ReadFile,
		Executable: os.Executable,
		Geteuid:    os.Geteuid,
		LookPath:   exec.LookPath,
		Output: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).Output()
		},
	}
}

func (h *Host) exists(path string) bool {
	_, err := h.Stat(path)
	return err == nil
}

// IsRoot reports whether the process runs with root privileges.
func (h *Host) IsRoot() bool {
	return h.Geteuid() == 0
}

// InstallPath returns the installation directory.
func (h *Host) InstallPath() string {
	return DefaultInstallPath
}

// IsInstalled reports whether the running binary is the installed one.
func (h *Host) IsInstalled() bool {
	exe, err := h.Executable()
	if err != nil {
		return false
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	rel, err := filepath.Rel(h.InstallPath(), exe)
	return err == nil && !strings.HasPrefix(rel, "..")
}

// IsInstalledDaemon reports whether the service unit is installed.
func (h *Host) IsInstalledDaemon() bool {
	for _, p := range []string{
		"/etc/systemd/system/relaydesk.service",
		"/usr/lib/systemd/system/relaydesk.service",
		"/lib/systemd/system/relaydesk.service",
	} {
		if h.exists(p) {
			return true
		}
	}
	return false
}

// CurrentIsWayland reports whether this session runs under Wayland.
func (h *Host) CurrentIsWayland() bool {
	return h.Getenv("WAYLAND_DISPLAY") != "" || strings.EqualFold(h.Getenv("XDG_SESSION_TYPE"), "wayland")
}

// IsLoginWayland reports whether the display manager's login screen runs
// under Wayland. Only GDM is detected.
func (h *Host) IsLoginWayland() bool {
	for _, p := range []string{"/etc/gdm3/custom.conf", "/etc/gdm/custom.conf"} {
		data, err := h.ReadFile(p)
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.ReplaceAll(strings.TrimSpace(line), " ", "")
			if strings.EqualFold(line, "WaylandEnable=false") {
				return false
			}
		}
		return true
	}
	return false
}

// IsXfce reports whether the desktop is Xfce.
func (h *Host) IsXfce() bool {
	return strings.Contains(strings.ToUpper(h.Getenv("XDG_CURRENT_DESKTOP")), "XFCE")
}

// IsProcessTrusted reports whether the accessibility permission is granted.
// Only macOS gates input injection this way.
func (h *Host) IsProcessTrusted() bool {
	return h.GOOS != "darwin"
}

// CanScreenRecord reports whether the screen-recording permission is granted.
func (h *Host) CanScreenRecord() bool {
	return h.GOOS != "darwin"
}

// HasAudioRelay reports whether the local audio relay can run here.
func (h *Host) HasAudioRelay() bool {
	return h.GOOS == "linux"
}

// SoftwareExt returns the package format updates are offered in.
func (h *Host) SoftwareExt() string {
	switch h.GOOS {
	case "windows":
		return "exe"
	case "darwin":
		return "dmg"
	}
	if _, err := h.LookPath("dpkg"); err == nil {
		return "deb"
	}
	if _, err := h.LookPath("rpm"); err == nil {
		return "rpm"
	}
	return "tar.gz"
}

// SoftwareStorePath returns where a downloaded update is written.
func (h *Host) SoftwareStorePath(version string) string {
	dir := h.Getenv("XDG_DOWNLOAD_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "relaydesk-"+version+"."+h.SoftwareExt())
}

// SystemVideoDir is where recordings go when the client runs as root.
const SystemVideoDir = "/var/lib/relaydesk/videos"

// VideoDir returns the default directory for session recordings.
func (h *Host) VideoDir(root bool) string {
	if root {
		return SystemVideoDir
	}
	if dir := h.Getenv("XDG_VIDEOS_DIR"); dir != "" {
		return filepath.Join(dir, "relaydesk")
	}
	if home := h.Getenv("HOME"); home != "" {
		return filepath.Join(home, "Videos", "relaydesk")
	}
	return filepath.Join(os.TempDir(), "relaydesk-videos")
}

// SoundInputs lists the PulseAudio capture sources by name. Monitor sources
// of output sinks are included. It is empty off Linux or without pactl.
func (h *Host) SoundInputs() []string {
	if h.GOOS != "linux" {
		return nil
	}
	if _, err := h.LookPath("pactl"); err != nil {
		return nil
	}
	out, err := h.Output("pactl", "list", "short", "sources")
	if err != nil {
		return nil
	}
	return parseSources(string(out))
}

// parseSources reads the second column of `pactl list short sources`.
func parseSources(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		names = append(names, fields[1])
	}
	return names
}

// InputHook is the native input hook used by remote-control windows.
type InputHook struct {
	host *Host
}

// NewInputHook creates the input hook for h.
func NewInputHook(h *Host) *InputHook {
	return &InputHook{host: h}
}

// Enable checks the hook can be installed. On Linux that needs write access
// to /dev/uinput.
func (i *InputHook) Enable() error {
	if i.host.GOOS != "linux" {
		return ErrUnsupported
	}
	f, err := os.OpenFile("/dev/uinput", os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	return f.Close()
}
