// Package ipc talks to the local relaydesk service over the D-Bus session bus.
// The service owns identity, credentials and the peer transport; this client
// proxies calls to it and relays its connection-manager signals.
package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	// BusName is the well-known name owned by the service.
	BusName = "io.github.jmylchreest.RelayDesk"
	// ObjectPath is the service object path.
	ObjectPath = "/io/github/jmylchreest/RelayDesk"
	// Interface is the service interface name.
	Interface = "io.github.jmylchreest.RelayDesk.Service"

	// DefaultTimeout bounds each method call.
	DefaultTimeout = 3 * time.Second
)

// ErrNotConnected is returned when the client has no bus connection.
var ErrNotConnected = errors.New("not connected to D-Bus")

// caller is the part of dbus.BusObject the client uses.
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...any) *dbus.Call
}

// Client is a D-Bus client for the relaydesk service.
type Client struct {
	conn    *dbus.Conn
	obj     caller
	logger  *slog.Logger
	timeout time.Duration
}

// Dial connects to the session bus.
func Dial(logger *slog.Logger) (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return NewClient(conn, logger), nil
}

// NewClient wraps an existing bus connection.
func NewClient(conn *dbus.Conn, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{conn: conn, logger: logger, timeout: DefaultTimeout}
	if conn != nil {
		c.obj = conn.Object(BusName, dbus.ObjectPath(ObjectPath))
	}
	return c
}

func newClientWithCaller(obj caller, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{obj: obj, logger: logger, timeout: DefaultTimeout}
}

// Close closes the bus connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// call invokes a service method and stores the reply into out.
func (c *Client) call(ctx context.Context, method string, out []any, args ...any) error {
	if c.obj == nil {
		return ErrNotConnected
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	call := c.obj.CallWithContext(ctx, Interface+"."+method, 0, args...)
	if call.Err != nil {
		return fmt.Errorf("%s: %w", method, call.Err)
	}
	if len(out) == 0 {
		return nil
	}
	if err := call.Store(out...); err != nil {
		return fmt.Errorf("%s: decode reply: %w", method, err)
	}
	return nil
}

func (c *Client) callString(ctx context.Context, method string, args ...any) (string, error) {
	var s string
	err := c.call(ctx, method, []any{&s}, args...)
	return s, err
}

func (c *Client) callBool(ctx context.Context, method string, args ...any) (bool, error) {
	var b bool
	err := c.call(ctx, method, []any{&b}, args...)
	return b, err
}

// ID returns this machine's id.
func (c *Client) ID(ctx context.Context) (string, error) {
	return c.callString(ctx, "GetID")
}

// TemporaryPassword returns the current one-time password.
func (c *Client) TemporaryPassword(ctx context.Context) (string, error) {
	return c.callString(ctx, "GetTemporaryPassword")
}

// UpdateTemporaryPassword asks the service to rotate the one-time password.
func (c *Client) UpdateTemporaryPassword(ctx context.Context) error {
	return c.call(ctx, "UpdateTemporaryPassword", nil)
}

// PermanentPassword returns the permanent password, or "" when unset.
func (c *Client) PermanentPassword(ctx context.Context) (string, error) {
	return c.callString(ctx, "GetPermanentPassword")
}

// SetPermanentPassword sets the permanent password.
func (c *Client) SetPermanentPassword(ctx context.Context, password string) error {
	return c.call(ctx, "SetPermanentPassword", nil, password)
}

// ChangeID asks the rendezvous server, through the service, for a new id.
// It blocks until the server answers.
func (c *Client) ChangeID(ctx context.Context, id string) error {
	var reply string
	if err := c.call(ctx, "ChangeID", []any{&reply}, id); err != nil {
		return err
	}
	if reply != "" {
		return errors.New(reply)
	}
	return nil
}

// HasValid2FA reports whether two-factor authentication is configured.
func (c *Client) HasValid2FA(ctx context.Context) (bool, error) {
	return c.callBool(ctx, "HasValid2FA")
}

// Generate2FA returns a fresh otpauth URL for enrolling a device.
func (c *Client) Generate2FA(ctx context.Context) (string, error) {
	return c.callString(ctx, "Generate2FA")
}

// Verify2FA checks a code against the pending enrolment and enables 2FA on success.
func (c *Client) Verify2FA(ctx context.Context, code string) (bool, error) {
	return c.callBool(ctx, "Verify2FA", code)
}

// VerifyLogin checks a login code for the given secret.
func (c *Client) VerifyLogin(ctx context.Context, secret, code string) (bool, error) {
	return c.callBool(ctx, "VerifyLogin", secret, code)
}

// Fingerprint returns the service's public key fingerprint.
func (c *Client) Fingerprint(ctx context.Context) (string, error) {
	return c.callString(ctx, "GetFingerprint")
}

// UUID returns the machine uuid.
func (c *Client) UUID(ctx context.Context) (string, error) {
	return c.callString(ctx, "GetUUID")
}

// ConnectStatus is the service's rendezvous connection state.
type ConnectStatus struct {
	Status       int32 // <0 failed, 0 connecting, >0 ready
	KeyConfirmed bool
	ID           string
}

// ConnectStatus returns the rendezvous connection state.
func (c *Client) ConnectStatus(ctx context.Context) (ConnectStatus, error) {
	var st ConnectStatus
	err := c.call(ctx, "GetConnectStatus", []any{&st.Status, &st.KeyConfirmed, &st.ID})
	return st, err
}

// LoginDeviceInfo returns a JSON object describing this device for account login.
func (c *Client) LoginDeviceInfo(ctx context.Context) (string, error) {
	return c.callString(ctx, "GetLoginDeviceInfo")
}

// Authorize accepts a pending incoming client.
func (c *Client) Authorize(ctx context.Context, clientID uint32) error {
	return c.call(ctx, "Authorize", nil, clientID)
}

// CloseClient disconnects an incoming client.
func (c *Client) CloseClient(ctx context.Context, clientID uint32) error {
	return c.call(ctx, "CloseClient", nil, clientID)
}
