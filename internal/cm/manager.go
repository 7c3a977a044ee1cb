// Package cm is the native behavior behind the connection-manager window,
// which lists the clients connected to this machine.
package cm

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jmylchreest/relaydesk/internal/frontend"
	"github.com/jmylchreest/relaydesk/internal/ipc"
)

// Events delivers client notifications. *ipc.Client implements it.
type Events interface {
	Subscribe(ctx context.Context) (<-chan ipc.Event, error)
}

// Controls acts on connected clients. *ipc.Client implements it.
type Controls interface {
	Authorize(ctx context.Context, clientID uint32) error
	CloseClient(ctx context.Context, clientID uint32) error
}

// Ringer plays the connection chime. *audio.Chime implements it.
type Ringer interface {
	Ring() bool
}

// Client is one connected remote client.
type Client struct {
	ID          uint32
	PeerID      string
	Name        string
	ConnectedAt time.Time
	Authorized  bool
}

// Manager tracks the clients connected to this machine. Each page element
// gets its own Manager.
type Manager struct {
	events   Events
	controls Controls
	chime    Ringer
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	clients map[uint32]Client
	cancel  context.CancelFunc
	done    chan struct{}
}

var _ frontend.Behavior = (*Manager)(nil)

// New creates a manager. chime may be nil.
func New(events Events, controls Controls, chime Ringer, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		events:   events,
		controls: controls,
		chime:    chime,
		logger:   logger,
		now:      time.Now,
		clients:  make(map[uint32]Client),
	}
}

// Start subscribes to client events until Detach.
func (m *Manager) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	events, err := m.events.Subscribe(ctx)
	if err != nil {
		cancel()
		return fmt.Errorf("subscribe to client events: %w", err)
	}

	done := make(chan struct{})
	m.mu.Lock()
	m.cancel = cancel
	m.done = done
	m.mu.Unlock()

	go func() {
		defer close(done)
		for ev := range events {
			m.handle(ev)
		}
	}()
	return nil
}

func (m *Manager) handle(ev ipc.Event) {
	switch ev.Kind {
	case ipc.EventConnected:
		m.mu.Lock()
		m.clients[ev.ClientID] = Client{
			ID:          ev.ClientID,
			PeerID:      ev.PeerID,
			Name:        ev.Name,
			ConnectedAt: m.now(),
		}
		m.mu.Unlock()
		m.logger.Info("client connected", "client", ev.ClientID, "peer", ev.PeerID, "name", ev.Name)
		if m.chime != nil {
			m.chime.Ring()
		}
	case ipc.EventDisconnected:
		m.mu.Lock()
		delete(m.clients, ev.ClientID)
		m.mu.Unlock()
		m.logger.Info("client disconnected", "client", ev.ClientID)
	}
}

// Clients returns the connected clients, oldest first.
func (m *Manager) Clients() []Client {
	m.mu.Lock()
	out := make([]Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	m.mu.Unlock()

	slices.SortFunc(out, func(a, b Client) int {
		if c := a.ConnectedAt.Compare(b.ConnectedAt); c != 0 {
			return c
		}
		return int(a.ID) - int(b.ID)
	})
	return out
}

// Authorize accepts a client.
func (m *Manager) Authorize(id uint32) error {
	if err := m.controls.Authorize(context.Background(), id); err != nil {
		return fmt.Errorf("authorize client %d: %w", id, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clients[id]; ok {
		c.Authorized = true
		m.clients[id] = c
	}
	return nil
}

// Close disconnects a client. It is removed when the service confirms.
func (m *Manager) Close(id uint32) error {
	if err := m.controls.CloseClient(context.Background(), id); err != nil {
		return fmt.Errorf("close client %d: %w", id, err)
	}
	return nil
}

// Summary describes the connected clients for the status line.
func (m *Manager) Summary() string {
	clients := m.Clients()
	switch len(clients) {
	case 0:
		return "No clients connected"
	case 1:
		return "1 client: " + label(clients[0])
	}
	names := make([]string, len(clients))
	for i, c := range clients {
		names[i] = label(c)
	}
	return fmt.Sprintf("%d clients: %s", len(clients), strings.Join(names, ", "))
}

func label(c Client) string {
	if c.Name != "" {
		return c.Name
	}
	return c.PeerID
}

// Detach stops the subscription and waits for it to drain.
func (m *Manager) Detach() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel = nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
