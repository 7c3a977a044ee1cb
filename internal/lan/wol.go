package lan

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/jmylchreest/relaydesk/internal/peer"
)

// WOLPort is the discard port magic packets are sent to.
const WOLPort = 9

// ErrNoMAC is returned when the target's hardware address is unknown.
var ErrNoMAC = errors.New("no hardware address known for peer")

// MagicPacket builds a wake-on-LAN packet: six 0xFF bytes followed by the
// hardware address repeated sixteen times.
func MagicPacket(mac net.HardwareAddr) ([]byte, error) {
	if len(mac) != 6 {
		return nil, fmt.Errorf("wake-on-lan needs a 6-byte hardware address, got %d bytes", len(mac))
	}
	pkt := make([]byte, 0, 6+16*6)
	for range 6 {
		pkt = append(pkt, 0xFF)
	}
	for range 16 {
		pkt = append(pkt, mac...)
	}
	return pkt, nil
}

// Lookup resolves a peer id to its cached discovery record.
type Lookup interface {
	Lookup(id string) (peer.Discovered, bool)
}

// Waker sends magic packets to peers found by discovery.
type Waker struct {
	peers     Lookup
	broadcast string
	port      int
}

// NewWaker creates a waker that sends to the given broadcast address.
func NewWaker(peers Lookup, broadcast string) *Waker {
	if broadcast == "" {
		broadcast = DefaultBroadcast
	}
	return &Waker{peers: peers, broadcast: broadcast, port: WOLPort}
}

// Wake sends a magic packet for the peer with the given id.
func (w *Waker) Wake(ctx context.Context, id string) error {
	d, ok := w.peers.Lookup(id)
	if !ok || d.MAC == "" {
		return fmt.Errorf("%w: %s", ErrNoMAC, id)
	}
	mac, err := net.ParseMAC(d.MAC)
	if err != nil {
		return fmt.Errorf("peer %s: %w", id, err)
	}
	pkt, err := MagicPacket(mac)
	if err != nil {
		return err
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "udp4", net.JoinHostPort(w.broadcast, strconv.Itoa(w.port)))
	if err != nil {
		return fmt.Errorf("dial %s: %w", w.broadcast, err)
	}
	defer conn.Close()

	if _, err := conn.Write(pkt); err != nil {
		return fmt.Errorf("send magic packet: %w", err)
	}
	return nil
}
