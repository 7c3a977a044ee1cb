// Package update checks for a newer software release.
package update

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-resty/resty/v2"
)

// ErrBadResponse is returned when the update server answers with an error
// status or an unusable body.
var ErrBadResponse = errors.New("bad update response")

// Release is the update server's description of the latest version.
type Release struct {
	Version string `json:"version"`
	URL     string `json:"url"`
}

// Checker fetches the latest release and remembers it when it is newer than
// the running version.
type Checker struct {
	client  *resty.Client
	url     string
	current string
	logger  *slog.Logger

	mu     sync.RWMutex
	latest Release
}

// NewChecker creates a checker for the running version current.
func NewChecker(url, current string, timeout time.Duration, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cli := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Checker{client: cli, url: url, current: current, logger: logger}
}

// Check fetches the latest release. When it is newer than the running
// version it becomes available through NewVersion and DownloadURL.
func (c *Checker) Check(ctx context.Context) error {
	var rel Release
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&rel).
		Get(c.url)
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: http %d", ErrBadResponse, resp.StatusCode())
	}
	if rel.Version == "" {
		return fmt.Errorf("%w: missing version", ErrBadResponse)
	}

	newer, err := Newer(rel.Version, c.current)
	if err != nil {
		return err
	}
	if !newer {
		c.logger.Debug("no update available", "current", c.current, "latest", rel.Version)
		return nil
	}

	c.logger.Info("update available", "current", c.current, "latest", rel.Version)
	c.mu.Lock()
	c.latest = rel
	c.mu.Unlock()
	return nil
}

// Run is the background task form of Check. A failed check is only logged.
func (c *Checker) Run(ctx context.Context) error {
	if err := c.Check(ctx); err != nil {
		c.logger.Debug("update check failed", "error", err)
	}
	return nil
}

// NewVersion returns the newer version found by the last check, or "".
func (c *Checker) NewVersion() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest.Version
}

// DownloadURL returns where the newer version can be downloaded, or "".
func (c *Checker) DownloadURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest.URL
}

// Newer reports whether candidate is a later version than current.
func Newer(candidate, current string) (bool, error) {
	cv, err := semver.NewVersion(strings.TrimSpace(candidate))
	if err != nil {
		return false, fmt.Errorf("parse version %q: %w", candidate, err)
	}
	v, err := semver.NewVersion(strings.TrimSpace(current))
	if err != nil {
		return false, fmt.Errorf("parse version %q: %w", current, err)
	}
	return cv.GreaterThan(v), nil
}

// LowerThan reports whether installed is an earlier version than current.
// Unparseable versions are never reported as lower.
func LowerThan(installed, current string) bool {
	newer, err := Newer(current, installed)
	return err == nil && newer
}
