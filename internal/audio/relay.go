package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
)

// DefaultCaptureCommand records the default output monitor as raw PCM.
var DefaultCaptureCommand = []string{
	"parec", "--format=s16le", "--rate=48000", "--channels=2", "--device=@DEFAULT_MONITOR@",
}

// SocketPath returns the relay socket under XDG_RUNTIME_DIR, or the temp
// directory when it is unset.
func SocketPath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "relaydesk", "pa.sock")
}

// Relay serves captured desktop audio on a unix socket. Each client gets
// its own capture process whose output is copied to the connection.
type Relay struct {
	socketPath string
	command    []string
	logger     *slog.Logger
}

// NewRelay creates a relay. A nil command uses DefaultCaptureCommand.
func NewRelay(socketPath string, command []string, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	if len(command) == 0 {
		command = DefaultCaptureCommand
	}
	return &Relay{socketPath: socketPath, command: command, logger: logger}
}

// Run listens until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(r.socketPath), 0700); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}
	// A previous run may have left its socket behind.
	if err := os.Remove(r.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale socket: %w", err)
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "unix", r.socketPath)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.socketPath, err)
	}
	r.logger.Debug("audio relay listening", "socket", r.socketPath)

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.serve(ctx, conn)
		}()
	}
}

func (r *Relay) serve(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The client hanging up ends the capture.
	go func() {
		buf := make([]byte, 1)
		for {
			if _, err := conn.Read(buf); err != nil {
				cancel()
				return
			}
		}
	}()

	cmd := exec.CommandContext(ctx, r.command[0], r.command[1:]...)
	cmd.Stdout = conn
	if err := cmd.Run(); err != nil && ctx.Err() == nil {
		r.logger.Warn("audio capture failed", "command", r.command[0], "error", err)
		return
	}
	r.logger.Debug("audio capture finished")
}
