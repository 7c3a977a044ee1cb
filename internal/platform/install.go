package platform

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// VersionFile holds the installed version inside the install path.
const VersionFile = "VERSION"

// InstalledVersion returns the version recorded by the last install, or ""
// when nothing is installed.
func (h *Host) InstalledVersion() string {
	data, err := h.ReadFile(filepath.Join(h.InstallPath(), VersionFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Installer installs the running binary or a downloaded package with
// elevated privileges.
type Installer struct {
	host    *Host
	version string
	logger  *slog.Logger
	// run executes the command; tests replace it.
	run func(ctx context.Context, name string, args ...string) error
}

// NewInstaller creates an installer that records version on install.
func NewInstaller(h *Host, version string, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Installer{host: h, version: version, logger: logger, run: runCommand}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// elevate prefixes args with pkexec unless already root.
func (i *Installer) elevate(args []string) (string, []string) {
	if i.host.IsRoot() {
		return args[0], args[1:]
	}
	return "pkexec", args
}

// Install copies the running binary into path, or the default install path
// when empty. options is a space separated list; "desktopicon" also installs
// the desktop entry.
func (i *Installer) Install(ctx context.Context, options, path string) error {
	if i.host.GOOS != "linux" {
		return ErrUnsupported
	}
	exe, err := i.host.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	if path == "" {
		path = i.host.InstallPath()
	}

	steps := [][]string{
		{"install", "-D", "-m", "0755", exe, filepath.Join(path, "relaydesk")},
		{"sh", "-c", fmt.Sprintf("printf '%%s\\n' %q > %q", i.version, filepath.Join(path, VersionFile))},
	}
	if strings.Contains(options, "desktopicon") {
		steps = append(steps, []string{"ln", "-sf", filepath.Join(path, "relaydesk"), "/usr/bin/relaydesk"})
	}
	for _, step := range steps {
		name, args := i.elevate(step)
		if err := i.run(ctx, name, args...); err != nil {
			return fmt.Errorf("install: %w", err)
		}
	}
	i.logger.Info("installed", "path", path, "version", i.version)
	return nil
}

// Update installs the downloaded package at path with the system package
// manager.
func (i *Installer) Update(ctx context.Context, path string) error {
	if i.host.GOOS != "linux" {
		return ErrUnsupported
	}
	var step []string
	switch filepath.Ext(path) {
	case ".deb":
		step = []string{"dpkg", "-i", path}
	case ".rpm":
		step = []string{"rpm", "-U", path}
	default:
		return fmt.Errorf("unsupported package %q", filepath.Base(path))
	}
	name, args := i.elevate(step)
	if err := i.run(ctx, name, args...); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	i.logger.Info("updated", "package", path)
	return nil
}
