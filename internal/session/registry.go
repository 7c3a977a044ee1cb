package session

import (
	"log/slog"
	"sync"
)

// Registry holds at most one active session. The window thread writes it when
// a new connection is made; background tasks read it for reporting.
type Registry struct {
	mu      sync.Mutex
	current *Session
	logger  *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register installs s as the active session, then releases the session it
// replaced. The lock covers only the swap.
func (r *Registry) Register(s *Session) {
	if s == nil {
		return
	}

	r.mu.Lock()
	old := r.current
	r.current = s
	r.mu.Unlock()

	if old == nil || old == s {
		return
	}
	r.logger.Debug("replacing active session", "old", old.Handle(), "new", s.Handle())
	if err := old.Close(); err != nil {
		r.logger.Warn("failed to close replaced session", "handle", old.Handle(), "error", err)
	}
}

// Current returns a snapshot of the active session.
func (r *Registry) Current() (Info, bool) {
	r.mu.Lock()
	s := r.current
	r.mu.Unlock()

	if s == nil {
		return Info{}, false
	}
	return s.Info(), true
}

// CurrentID returns the handle of the active session, or "" if there is none.
func (r *Registry) CurrentID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return ""
	}
	return r.current.Handle()
}

// Close empties the registry and closes the active session. It is the
// teardown boundary and is safe to call more than once.
func (r *Registry) Close() error {
	r.mu.Lock()
	s := r.current
	r.current = nil
	r.mu.Unlock()

	if s == nil {
		return nil
	}
	return s.Close()
}
