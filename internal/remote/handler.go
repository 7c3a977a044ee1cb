// Package remote is the native behavior behind a remote-control window.
package remote

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmylchreest/relaydesk/internal/frontend"
	"github.com/jmylchreest/relaydesk/internal/launch"
	"github.com/jmylchreest/relaydesk/internal/session"
	"github.com/jmylchreest/relaydesk/internal/tasks"
)

// Spawner runs background work. *tasks.Group implements it.
type Spawner interface {
	Go(name string, fn tasks.Func)
}

// Handler binds one session to the page element that displays it.
type Handler struct {
	session   *session.Session
	connector session.Connector
	spawner   Spawner
	logger    *slog.Logger
}

var _ frontend.Behavior = (*Handler)(nil)

// New creates a handler for s. Call Start to begin connecting.
func New(s *session.Session, connector session.Connector, spawner Spawner, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		session:   s,
		connector: connector,
		spawner:   spawner,
		logger:    logger.With("session", s.Handle(), "peer", s.Params().PeerID),
	}
}

// Start connects in the background.
func (h *Handler) Start() {
	h.spawner.Go("session-connect", func(ctx context.Context) error {
		if err := h.session.Connect(ctx, h.connector); err != nil {
			h.logger.Warn("remote session failed", "error", err)
			return nil
		}
		h.logger.Debug("remote session connected")
		return nil
	})
}

// Session returns the bound session's handle.
func (h *Handler) Session() string { return h.session.Handle() }

// PeerID returns the remote peer.
func (h *Handler) PeerID() string { return h.session.Params().PeerID }

// Kind returns what the window does with the peer.
func (h *Handler) Kind() launch.RemoteKind { return h.session.Params().Kind }

// Summary describes the connection state for the status line.
func (h *Handler) Summary() string {
	state, err := h.session.State()
	id := h.PeerID()
	switch state {
	case session.StateConnecting:
		return "Connecting to " + id
	case session.StateConnected:
		return fmt.Sprintf("Connected to %s (%s)", id, h.Kind())
	case session.StateFailed:
		if err != nil {
			return fmt.Sprintf("Connection to %s failed: %v", id, err)
		}
		return "Connection to " + id + " failed"
	case session.StateClosed:
		return "Disconnected"
	default:
		return "Ready"
	}
}

// Reconnect retries a failed session. It reports whether a retry started;
// of concurrent callers only one does.
func (h *Handler) Reconnect() bool {
	if err := h.session.Retry(); err != nil {
		return false
	}
	h.spawner.Go("session-reconnect", func(ctx context.Context) error {
		if err := h.session.Resume(ctx, h.connector); err != nil {
			h.logger.Warn("remote session retry failed", "error", err)
			return nil
		}
		h.logger.Debug("remote session reconnected")
		return nil
	})
	return true
}

// Detach closes the session when the element goes away.
func (h *Handler) Detach() {
	if err := h.session.Close(); err != nil {
		h.logger.Warn("failed to close session", "error", err)
	}
}
