package ipc

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// EventKind distinguishes connection-manager events.
type EventKind int

const (
	// EventConnected is emitted when a remote client connects to this machine.
	EventConnected EventKind = iota
	// EventDisconnected is emitted when a client goes away.
	EventDisconnected
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Event is an incoming-client notification from the service.
type Event struct {
	Kind     EventKind
	ClientID uint32
	PeerID   string // Empty for disconnects
	Name     string
}

// Subscribe relays the service's client signals until ctx is cancelled.
// The returned channel is closed when the subscription ends.
func (c *Client) Subscribe(ctx context.Context) (<-chan Event, error) {
	if c.conn == nil {
		return nil, ErrNotConnected
	}

	opts := []dbus.MatchOption{
		dbus.WithMatchObjectPath(dbus.ObjectPath(ObjectPath)),
		dbus.WithMatchInterface(Interface),
	}
	if err := c.conn.AddMatchSignal(opts...); err != nil {
		return nil, fmt.Errorf("failed to add match rule: %w", err)
	}

	signals := make(chan *dbus.Signal, 16)
	c.conn.Signal(signals)

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		defer func() {
			c.conn.RemoveSignal(signals)
			if err := c.conn.RemoveMatchSignal(opts...); err != nil {
				c.logger.Debug("failed to remove match rule", "error", err)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-signals:
				if !ok {
					return
				}
				ev, ok := parseSignal(sig)
				if !ok {
					continue
				}
				c.logger.Debug("cm event", "kind", ev.Kind, "client", ev.ClientID, "peer", ev.PeerID)
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// parseSignal converts a service signal into an Event.
func parseSignal(sig *dbus.Signal) (Event, bool) {
	if sig == nil || sig.Path != dbus.ObjectPath(ObjectPath) {
		return Event{}, false
	}

	switch sig.Name {
	case Interface + ".ClientConnected":
		// ClientConnected(u id, s peer, s name)
		if len(sig.Body) < 3 {
			return Event{}, false
		}
		id, ok1 := sig.Body[0].(uint32)
		peer, ok2 := sig.Body[1].(string)
		name, ok3 := sig.Body[2].(string)
		if !ok1 || !ok2 || !ok3 {
			return Event{}, false
		}
		return Event{Kind: EventConnected, ClientID: id, PeerID: peer, Name: name}, true

	case Interface + ".ClientDisconnected":
		if len(sig.Body) < 1 {
			return Event{}, false
		}
		id, ok := sig.Body[0].(uint32)
		if !ok {
			return Event{}, false
		}
		return Event{Kind: EventDisconnected, ClientID: id}, true
	}
	return Event{}, false
}
