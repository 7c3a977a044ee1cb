package ipc

import (
	"context"
	"sync"

	"github.com/jmylchreest/relaydesk/internal/session"
)

// Connector opens remote-control sessions through the service. It satisfies
// session.Connector.
type Connector struct {
	client *Client
}

// NewConnector creates a connector backed by c.
func NewConnector(c *Client) *Connector {
	return &Connector{client: c}
}

// Open asks the service to start a session and returns its handle.
func (sc *Connector) Open(ctx context.Context, p session.Params) (session.Conn, error) {
	var handle uint32
	err := sc.client.call(ctx, "OpenSession", []any{&handle},
		string(p.Kind), p.PeerID, p.Password, nonNil(p.ExtraArgs))
	if err != nil {
		return nil, err
	}
	sc.client.logger.Debug("session opened", "peer", p.PeerID, "kind", p.Kind, "handle", handle)
	return &remoteConn{client: sc.client, handle: handle}, nil
}

// remoteConn is a service-side session.
type remoteConn struct {
	client *Client
	handle uint32
	once   sync.Once
	err    error
}

// Close ends the service-side session once.
func (rc *remoteConn) Close() error {
	rc.once.Do(func() {
		rc.err = rc.client.call(context.Background(), "CloseSession", nil, rc.handle)
		if rc.err != nil {
			rc.client.logger.Warn("failed to close session", "handle", rc.handle, "error", rc.err)
		}
	})
	return rc.err
}

// nonNil keeps D-Bus from rejecting a nil slice as an invalid array.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
