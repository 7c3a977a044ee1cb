// Package session holds the client-side state of remote-control sessions and
// the single-slot registry of the active one.
package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/relaydesk/internal/launch"
)

// ErrClosed is returned when a closed session is asked to connect.
var ErrClosed = errors.New("session is closed")

// ErrInProgress is returned when a session is already connecting or connected.
var ErrInProgress = errors.New("session connect already in progress")

// State is the connection state of a session.
type State string

const (
	StateNew        State = "new"
	StateConnecting State = "connecting"
	StateConnected  State = "connected"
	StateFailed     State = "failed"
	StateClosed     State = "closed"
)

// Params describe the session to open.
type Params struct {
	Kind      launch.RemoteKind
	PeerID    string
	Password  string
	ExtraArgs []string
}

// ParamsFromMode copies the session parameters out of a remote-control mode.
func ParamsFromMode(m launch.RemoteControl) Params {
	return Params{
		Kind:      m.Kind,
		PeerID:    m.TargetID,
		Password:  m.Password,
		ExtraArgs: append([]string(nil), m.ExtraArgs...),
	}
}

// Conn is an established connection owned by the transport.
type Conn interface {
	Close() error
}

// Connector opens connections to peers. The transport behind it is external;
// any timeout belongs to the connector.
type Connector interface {
	Open(ctx context.Context, p Params) (Conn, error)
}

// Session is the opaque handle for one remote-control session.
type Session struct {
	handle    string
	params    Params
	createdAt time.Time

	mu      sync.Mutex
	state   State
	lastErr error
	conn    Conn
}

// New creates an unconnected session.
func New(p Params) *Session {
	now := time.Now()
	return &Session{
		handle:    ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		params:    p,
		createdAt: now,
		state:     StateNew,
	}
}

// Handle returns the session's unique id.
func (s *Session) Handle() string { return s.handle }

// Params returns a copy of the session parameters.
func (s *Session) Params() Params {
	p := s.params
	p.ExtraArgs = append([]string(nil), s.params.ExtraArgs...)
	return p
}

// State returns the connection state and the last connect error, if any.
func (s *Session) State() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.lastErr
}

// Connect opens the session through c. It blocks for as long as the
// connector does and is meant to run in a background task. It fails with
// ErrInProgress when the session is already connecting or connected.
func (s *Session) Connect(ctx context.Context, c Connector) error {
	if err := s.begin(StateNew, StateFailed); err != nil {
		return err
	}
	return s.open(ctx, c)
}

// Retry moves a failed session back to connecting. Only one caller wins;
// the winner must finish with Resume.
func (s *Session) Retry() error {
	return s.begin(StateFailed)
}

// Resume opens the connection after a successful Retry.
func (s *Session) Resume(ctx context.Context, c Connector) error {
	return s.open(ctx, c)
}

// begin is the only transition into StateConnecting.
func (s *Session) begin(from ...State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.state == StateClosed:
		return ErrClosed
	case !slices.Contains(from, s.state):
		return fmt.Errorf("%w: %s", ErrInProgress, s.state)
	}
	s.state = StateConnecting
	s.lastErr = nil
	return nil
}

func (s *Session) open(ctx context.Context, c Connector) error {
	conn, err := c.Open(ctx, s.Params())

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		// Closed while dialing; drop the late connection.
		if conn != nil {
			_ = conn.Close()
		}
		return ErrClosed
	}
	if err != nil {
		s.state = StateFailed
		s.lastErr = err
		s.mu.Unlock()
		return fmt.Errorf("connect %s: %w", s.params.PeerID, err)
	}
	prev := s.conn
	s.conn = conn
	s.state = StateConnected
	s.mu.Unlock()

	if prev != nil && prev != conn {
		_ = prev.Close()
	}
	return nil
}

// Close releases the connection. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}
	s.state = StateClosed
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

// Info is a read-only snapshot of a session.
type Info struct {
	Handle    string
	Kind      launch.RemoteKind
	PeerID    string
	State     State
	CreatedAt time.Time
}

// Info returns a snapshot of the session.
func (s *Session) Info() Info {
	state, _ := s.State()
	return Info{
		Handle:    s.handle,
		Kind:      s.params.Kind,
		PeerID:    s.params.PeerID,
		State:     state,
		CreatedAt: s.createdAt,
	}
}
