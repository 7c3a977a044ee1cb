package httpreq

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// ErrInvalidServer is returned for server addresses that fail the syntax check.
var ErrInvalidServer = errors.New("invalid server address")

// Socks describes the SOCKS5 proxy a probe may go through.
type Socks struct {
	Proxy    string
	Username string
	Password string
}

// Prober checks whether a rendezvous server accepts connections.
type Prober struct {
	defaultPort int
	timeout     time.Duration
}

// NewProber creates a prober. Hosts without a port use defaultPort.
func NewProber(defaultPort int, timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Prober{defaultPort: defaultPort, timeout: timeout}
}

// Normalize checks host syntax and returns it as host:port.
func (p *Prober) Normalize(host string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidServer)
	}
	if strings.ContainsAny(host, " /\t") {
		return "", fmt.Errorf("%w: %q", ErrInvalidServer, host)
	}

	h, port, err := net.SplitHostPort(host)
	if err != nil {
		// No port given
		h, port = strings.Trim(host, "[]"), strconv.Itoa(p.defaultPort)
	}
	if h == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidServer, host)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n <= 0 || n > 65535 {
		return "", fmt.Errorf("%w: bad port in %q", ErrInvalidServer, host)
	}
	return net.JoinHostPort(h, port), nil
}

// Probe dials host, through socks when it names a proxy.
func (p *Prober) Probe(ctx context.Context, host string, socks *Socks) error {
	addr, err := p.Normalize(host)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	dialer, err := p.dialer(socks)
	if err != nil {
		return err
	}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("cannot reach %s: %w", addr, err)
	}
	return conn.Close()
}

func (p *Prober) dialer(socks *Socks) (proxy.ContextDialer, error) {
	direct := &net.Dialer{Timeout: p.timeout}
	if socks == nil || socks.Proxy == "" {
		return direct, nil
	}

	var auth *proxy.Auth
	if socks.Username != "" {
		auth = &proxy.Auth{User: socks.Username, Password: socks.Password}
	}
	d, err := proxy.SOCKS5("tcp", socks.Proxy, auth, direct)
	if err != nil {
		return nil, fmt.Errorf("socks5 proxy %s: %w", socks.Proxy, err)
	}
	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, errors.New("socks5 dialer does not support contexts")
	}
	return cd, nil
}
