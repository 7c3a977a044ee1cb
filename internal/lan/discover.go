// Package lan finds relaydesk peers on the local network and wakes them.
package lan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jmylchreest/relaydesk/internal/peer"
)

// DefaultBroadcast is the limited broadcast address.
const DefaultBroadcast = "255.255.255.255"

// Message types exchanged on the discovery port.
const (
	msgPing = "ping"
	msgPong = "pong"
)

// message is the JSON datagram used for both pings and replies.
type message struct {
	Type     string `json:"type"`
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Hostname string `json:"hostname,omitempty"`
	Platform string `json:"platform,omitempty"`
	MAC      string `json:"mac,omitempty"`
}

// Cache receives the peers found by a discovery round.
type Cache interface {
	Merge(found []peer.Discovered) error
}

// Discoverer broadcasts a ping and collects pong replies.
type Discoverer struct {
	cache     Cache
	port      int
	broadcast string
	wait      time.Duration
	logger    *slog.Logger
	group     singleflight.Group
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithBroadcast overrides the broadcast address.
func WithBroadcast(addr string) Option {
	return func(d *Discoverer) {
		if addr != "" {
			d.broadcast = addr
		}
	}
}

// WithWait sets how long replies are collected.
func WithWait(wait time.Duration) Option {
	return func(d *Discoverer) {
		if wait > 0 {
			d.wait = wait
		}
	}
}

// NewDiscoverer creates a discoverer that pings port and writes results to cache.
func NewDiscoverer(cache Cache, port int, logger *slog.Logger, opts ...Option) *Discoverer {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Discoverer{
		cache:     cache,
		port:      port,
		broadcast: DefaultBroadcast,
		wait:      3 * time.Second,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover runs one discovery round. Concurrent calls share a single round.
func (d *Discoverer) Discover(ctx context.Context) ([]peer.Discovered, error) {
	v, err, shared := d.group.Do("discover", func() (any, error) {
		return d.discover(ctx)
	})
	if shared {
		d.logger.Debug("joined in-flight discovery")
	}
	if err != nil {
		return nil, err
	}
	return v.([]peer.Discovered), nil
}

func (d *Discoverer) discover(ctx context.Context) ([]peer.Discovered, error) {
	var lc net.ListenConfig
	pc, err := lc.ListenPacket(ctx, "udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	defer pc.Close()

	conn, ok := pc.(*net.UDPConn)
	if !ok {
		return nil, errors.New("unexpected packet conn type")
	}
	if err := enableBroadcast(conn); err != nil {
		d.logger.Debug("failed to enable broadcast", "error", err)
	}

	ping, err := json.Marshal(message{Type: msgPing})
	if err != nil {
		return nil, err
	}
	dst, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(d.broadcast, strconv.Itoa(d.port)))
	if err != nil {
		return nil, fmt.Errorf("resolve broadcast address: %w", err)
	}
	if _, err := conn.WriteTo(ping, dst); err != nil {
		return nil, fmt.Errorf("send ping: %w", err)
	}

	deadline := time.Now().Add(d.wait)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}

	found := collect(ctx, conn, d.logger)
	d.logger.Debug("discovery finished", "found", len(found))

	if len(found) > 0 && d.cache != nil {
		if err := d.cache.Merge(found); err != nil {
			return found, fmt.Errorf("write discovered cache: %w", err)
		}
	}
	return found, nil
}

// collect reads replies until the read deadline or ctx ends. Replies merge by id.
func collect(ctx context.Context, conn net.PacketConn, logger *slog.Logger) []peer.Discovered {
	byID := make(map[string]int)
	var found []peer.Discovered
	buf := make([]byte, 2048)

	for ctx.Err() == nil {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			var ne net.Error
			if !errors.As(err, &ne) || !ne.Timeout() {
				logger.Debug("discovery read failed", "error", err)
			}
			break
		}

		d, ok := parseReply(buf[:n], addr)
		if !ok {
			continue
		}
		if i, seen := byID[d.ID]; seen {
			found[i] = d
			continue
		}
		byID[d.ID] = len(found)
		found = append(found, d)
	}
	return found
}

// parseReply decodes one pong datagram.
func parseReply(data []byte, addr net.Addr) (peer.Discovered, bool) {
	var m message
	if err := json.Unmarshal(data, &m); err != nil || m.Type != msgPong || m.ID == "" {
		return peer.Discovered{}, false
	}
	ip := ""
	if ua, ok := addr.(*net.UDPAddr); ok {
		ip = ua.IP.String()
	}
	return peer.Discovered{
		ID:       m.ID,
		Username: m.Username,
		Hostname: m.Hostname,
		Platform: m.Platform,
		IP:       ip,
		MAC:      m.MAC,
		SeenAt:   time.Now(),
	}, true
}
