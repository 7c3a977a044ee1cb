package facade

import (
	"context"
	"errors"
	"log/slog"
	"regexp"

	"github.com/jmylchreest/relaydesk/internal/jobs"
)

// ErrInvalidID is reported by ChangeID for ids that fail validation.
var ErrInvalidID = errors.New("invalid id: 6-16 characters, starting with a letter, then letters, digits, '_' or '-'")

var idPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{5,15}$`)

// ValidID reports whether id may be used as the local id.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Deps are the collaborators an Adapter proxies to. All are required.
type Deps struct {
	Version    string
	Identity   Identity
	Options    Options
	Peers      Peers
	Discovered DiscoveredPeers
	Watcher    ChangeWatcher
	Discoverer Discoverer
	Waker      Waker
	Updates    Updates
	Requester  Requester
	Prober     Prober
	Host       Host
	Launcher   Launcher
	Installer  Installer
	Spawner    Spawner
	Jobs       *jobs.Tracker
	Sessions   Sessions
	Translator Translator
	Logger     *slog.Logger
}

// Adapter implements API on top of its collaborators.
type Adapter struct {
	Deps
	ctx    context.Context
	logger *slog.Logger
}

var _ API = (*Adapter)(nil)

// New creates the facade.
func New(d Deps) *Adapter {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if d.Jobs == nil {
		d.Jobs = jobs.NewTracker()
	}
	return &Adapter{Deps: d, ctx: context.Background(), logger: logger}
}

// runJob starts fn in the background under key. A newer job for the same
// key supersedes this one.
func (a *Adapter) runJob(key string, fn func(ctx context.Context) (string, error)) {
	job := a.Jobs.Begin(key)
	a.Spawner.Go("job:"+key, func(ctx context.Context) error {
		result, err := fn(ctx)
		if !job.Finish(result, err) {
			a.logger.Debug("stale job completion discarded", "key", key, "generation", job.Generation())
		}
		if err != nil {
			a.logger.Debug("job failed", "key", key, "error", err)
		}
		return nil
	})
}

func (a *Adapter) queryString(what string, fn func(context.Context) (string, error)) string {
	s, err := fn(a.ctx)
	if err != nil {
		a.logger.Debug("query failed", "query", what, "error", err)
		return ""
	}
	return s
}

func (a *Adapter) queryBool(what string, fn func(context.Context) (bool, error)) bool {
	ok, err := fn(a.ctx)
	if err != nil {
		a.logger.Debug("query failed", "query", what, "error", err)
		return false
	}
	return ok
}

func (a *Adapter) command(what string, err error) {
	if err != nil {
		a.logger.Warn("command failed", "command", what, "error", err)
	}
}

// GetID returns the local id.
func (a *Adapter) GetID() string {
	return a.queryString("id", a.Identity.ID)
}

// TemporaryPassword returns the one-time password shown on the home page.
func (a *Adapter) TemporaryPassword() string {
	return a.queryString("temporary-password", a.Identity.TemporaryPassword)
}

// UpdateTemporaryPassword asks the service for a new one-time password.
func (a *Adapter) UpdateTemporaryPassword() {
	a.command("update-temporary-password", a.Identity.UpdateTemporaryPassword(a.ctx))
}

// PermanentPassword returns the fixed password, or "" when none is set.
func (a *Adapter) PermanentPassword() string {
	return a.queryString("permanent-password", a.Identity.PermanentPassword)
}

// SetPermanentPassword sets the fixed password. An empty one clears it.
func (a *Adapter) SetPermanentPassword(password string) {
	a.command("set-permanent-password", a.Identity.SetPermanentPassword(a.ctx, password))
}

// ChangeID asks the service to change the local id. The outcome is polled
// with GetAsyncJobStatus(jobs.KeyChangeID).
func (a *Adapter) ChangeID(id string) {
	a.runJob(jobs.KeyChangeID, func(ctx context.Context) (string, error) {
		if !ValidID(id) {
			return "", ErrInvalidID
		}
		return "", a.Identity.ChangeID(ctx, id)
	})
}

// IsOkChangeID reports whether this machine has the stable id the service
// needs to accept an id change.
func (a *Adapter) IsOkChangeID() bool {
	return a.queryString("uuid", a.Identity.UUID) != ""
}

// GetAsyncJobStatus returns the status text of the background job under key.
func (a *Adapter) GetAsyncJobStatus(key string) string {
	return a.Jobs.Status(key).Text()
}

// HasValid2FA reports whether two-factor login is configured.
func (a *Adapter) HasValid2FA() bool {
	return a.queryBool("2fa", a.Identity.HasValid2FA)
}

// Generate2FA returns a fresh otpauth URI for enrolling an authenticator.
func (a *Adapter) Generate2FA() string {
	return a.queryString("generate-2fa", a.Identity.Generate2FA)
}

// Verify2FA checks code against the pending enrollment.
func (a *Adapter) Verify2FA(code string) bool {
	return a.queryBool("verify-2fa", func(ctx context.Context) (bool, error) {
		return a.Identity.Verify2FA(ctx, code)
	})
}

// VerifyLogin checks a login code against secret.
func (a *Adapter) VerifyLogin(secret, code string) bool {
	return a.queryBool("verify-login", func(ctx context.Context) (bool, error) {
		return a.Identity.VerifyLogin(ctx, secret, code)
	})
}

// GetFingerprint returns the fingerprint of the local key.
func (a *Adapter) GetFingerprint() string {
	return a.queryString("fingerprint", a.Identity.Fingerprint)
}

// GetUUID returns the machine id, or "" when the service has none.
func (a *Adapter) GetUUID() string {
	return a.queryString("uuid", a.Identity.UUID)
}

// GetConnectStatus returns the rendezvous state. An unreachable service
// reads as connecting.
func (a *Adapter) GetConnectStatus() ConnectStatus {
	st, err := a.Identity.ConnectStatus(a.ctx)
	if err != nil {
		a.logger.Debug("query failed", "query", "connect-status", "error", err)
		return ConnectStatus{}
	}
	return ConnectStatus{Status: st.Status, KeyConfirmed: st.KeyConfirmed, ID: st.ID}
}

// GetLoginDeviceInfo returns the JSON device description sent on login.
func (a *Adapter) GetLoginDeviceInfo() string {
	return a.queryString("login-device-info", a.Identity.LoginDeviceInfo)
}
