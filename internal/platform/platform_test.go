package platform

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeHost(env map[string]string, files map[string]string) *Host {
	return &Host{
		GOOS:   "linux",
		Getenv: func(k string) string { return env[k] },
		Stat: func(p string) (fs.FileInfo, error) {
			if _, ok := files[p]; ok {
				return nil, nil
			}
			return nil, fs.ErrNotExist
		},
		ReadFile: func(p string) ([]byte, error) {
			if data, ok := files[p]; ok {
				return []byte(data), nil
			}
			return nil, fs.ErrNotExist
		},
		Executable: func() (string, error) { return "/home/u/bin/relaydesk", nil },
		Geteuid:    func() int { return 1000 },
		LookPath:   func(string) (string, error) { return "", exec.ErrNotFound },
		Output:     func(string, ...string) ([]byte, error) { return nil, exec.ErrNotFound },
	}
}

func TestHost_Wayland(t *testing.T) {
	assert.True(t, fakeHost(map[string]string{"WAYLAND_DISPLAY": "wayland-0"}, nil).CurrentIsWayland())
	assert.True(t, fakeHost(map[string]string{"XDG_SESSION_TYPE": "Wayland"}, nil).CurrentIsWayland())
	assert.False(t, fakeHost(map[string]string{"XDG_SESSION_TYPE": "x11"}, nil).CurrentIsWayland())
}

func TestHost_LoginWayland(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  bool
	}{
		{"no gdm", nil, false},
		{"gdm default", map[string]string{"/etc/gdm3/custom.conf": "[daemon]\n"}, true},
		{"gdm disabled", map[string]string{"/etc/gdm/custom.conf": "[daemon]\nWaylandEnable = false\n"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fakeHost(nil, tt.files).IsLoginWayland())
		})
	}
}

func TestHost_Desktop(t *testing.T) {
	assert.True(t, fakeHost(map[string]string{"XDG_CURRENT_DESKTOP": "XFCE"}, nil).IsXfce())
	assert.False(t, fakeHost(map[string]string{"XDG_CURRENT_DESKTOP": "GNOME"}, nil).IsXfce())
}

func TestHost_Privileges(t *testing.T) {
	h := fakeHost(nil, nil)
	assert.False(t, h.IsRoot())
	h.Geteuid = func() int { return 0 }
	assert.True(t, h.IsRoot())

	assert.True(t, h.IsProcessTrusted())
	assert.True(t, h.CanScreenRecord())
	h.GOOS = "darwin"
	assert.False(t, h.IsProcessTrusted())
	assert.False(t, h.HasAudioRelay())
}

func TestHost_Installed(t *testing.T) {
	h := fakeHost(nil, map[string]string{"/usr/lib/systemd/system/relaydesk.service": ""})
	assert.False(t, h.IsInstalled())
	assert.True(t, h.IsInstalledDaemon())

	h.Executable = func() (string, error) { return filepath.Join(DefaultInstallPath, "relaydesk"), nil }
	assert.True(t, h.IsInstalled())

	h.Executable = func() (string, error) { return "", errors.New("no exe") }
	assert.False(t, h.IsInstalled())
}

func TestHost_SoftwareExt(t *testing.T) {
	h := fakeHost(map[string]string{"XDG_DOWNLOAD_DIR": "/dl"}, nil)
	assert.Equal(t, "tar.gz", h.SoftwareExt())

	h.LookPath = func(name string) (string, error) {
		if name == "rpm" {
			return "/usr/bin/rpm", nil
		}
		return "", exec.ErrNotFound
	}
	assert.Equal(t, "rpm", h.SoftwareExt())
	assert.Equal(t, "/dl/relaydesk-1.2.0.rpm", h.SoftwareStorePath("1.2.0"))

	h.GOOS = "windows"
	assert.Equal(t, "exe", h.SoftwareExt())
}

func TestInputHook_Unsupported(t *testing.T) {
	h := fakeHost(nil, nil)
	h.GOOS = "plan9"
	assert.ErrorIs(t, NewInputHook(h).Enable(), ErrUnsupported)
}

func TestSpawner_Self(t *testing.T) {
	h := fakeHost(nil, nil)
	h.Executable = func() (string, error) { return "/bin/sh", nil }
	children := &recordedChildren{}
	s := NewSpawner(h, children, nil)

	var gotName string
	var gotArgs []string
	s.command = func(name string, args ...string) *exec.Cmd {
		gotName, gotArgs = name, args
		return exec.Command("true")
	}

	require.NoError(t, s.Self("--cm"))
	assert.Equal(t, "/bin/sh", gotName)
	assert.Equal(t, []string{"--cm"}, gotArgs)
	require.Len(t, children.pids, 1, "released child is handed to the reaper")
	assert.Positive(t, children.pids[0])
}

type recordedChildren struct {
	pids []int
}

func (r *recordedChildren) Add(pid int) { r.pids = append(r.pids, pid) }

func TestSpawner_OpenURL(t *testing.T) {
	h := fakeHost(nil, nil)
	s := NewSpawner(h, nil, nil)

	var gotName string
	s.command = func(name string, args ...string) *exec.Cmd {
		gotName = name
		return exec.Command("true")
	}
	require.NoError(t, s.OpenURL("https://example.com"))
	assert.Equal(t, "xdg-open", gotName)

	h.GOOS = "darwin"
	require.NoError(t, s.OpenURL("https://example.com"))
	assert.Equal(t, "open", gotName)
}

func TestSpawner_StartFailure(t *testing.T) {
	h := fakeHost(nil, nil)
	h.Executable = func() (string, error) { return "", os.ErrNotExist }
	s := NewSpawner(h, nil, nil)
	assert.ErrorIs(t, s.Self(), os.ErrNotExist)

	s.command = func(string, ...string) *exec.Cmd {
		return exec.Command(filepath.Join(t.TempDir(), "does-not-exist"))
	}
	h.Executable = func() (string, error) { return "x", nil }
	assert.Error(t, s.Self())
}

func TestHost_VideoDir(t *testing.T) {
	h := fakeHost(map[string]string{"HOME": "/home/u"}, nil)
	assert.Equal(t, SystemVideoDir, h.VideoDir(true))
	assert.Equal(t, "/home/u/Videos/relaydesk", h.VideoDir(false))

	h = fakeHost(map[string]string{"HOME": "/home/u", "XDG_VIDEOS_DIR": "/media/clips"}, nil)
	assert.Equal(t, "/media/clips/relaydesk", h.VideoDir(false))
}

func TestHost_SoundInputs(t *testing.T) {
	const listing = "0\talsa_output.pci.analog-stereo.monitor\tmodule-alsa-card.c\ts16le 2ch 44100Hz\tSUSPENDED\n" +
		"1\talsa_input.pci.analog-stereo\tmodule-alsa-card.c\ts16le 2ch 44100Hz\tRUNNING\n\n"

	h := fakeHost(nil, nil)
	assert.Empty(t, h.SoundInputs(), "no pactl")

	var called []string
	h.LookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	h.Output = func(name string, args ...string) ([]byte, error) {
		called = append([]string{name}, args...)
		return []byte(listing), nil
	}
	assert.Equal(t, []string{"alsa_output.pci.analog-stereo.monitor", "alsa_input.pci.analog-stereo"}, h.SoundInputs())
	assert.Equal(t, []string{"pactl", "list", "short", "sources"}, called)

	h.Output = func(string, ...string) ([]byte, error) { return nil, errors.New("no server") }
	assert.Empty(t, h.SoundInputs())

	h.GOOS = "darwin"
	assert.Empty(t, h.SoundInputs())
}
