package platform

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// ChildSet records detached children for the zombie reaper.
// *tasks.Children implements it.
type ChildSet interface {
	Add(pid int)
}

// Spawner starts detached processes.
type Spawner struct {
	host     *Host
	children ChildSet
	logger   *slog.Logger
	// command builds the command; exec.Command in production.
	command func(name string, args ...string) *exec.Cmd
}

// NewSpawner creates a spawner for h. Released children are added to
// children when it is not nil.
func NewSpawner(h *Host, children ChildSet, logger *slog.Logger) *Spawner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Spawner{host: h, children: children, logger: logger, command: exec.Command}
}

// Self starts a new instance of this binary with args and does not wait for it.
func (s *Spawner) Self(args ...string) error {
	exe, err := s.host.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	return s.start(exe, args...)
}

// OpenURL opens url with the desktop's default handler.
func (s *Spawner) OpenURL(url string) error {
	switch s.host.GOOS {
	case "windows":
		return s.start("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		return s.start("open", url)
	default:
		return s.start("xdg-open", url)
	}
}

func (s *Spawner) start(name string, args ...string) error {
	cmd := s.command(name, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	s.logger.Debug("spawned process", "command", name, "args", args, "pid", cmd.Process.Pid)
	// The zombie reaper collects it when it exits.
	if s.children != nil {
		s.children.Add(cmd.Process.Pid)
	}
	return cmd.Process.Release()
}
