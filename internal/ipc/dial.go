package ipc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultDialWait bounds how long DialWithRetry keeps trying.
const DefaultDialWait = 10 * time.Second

// DialWithRetry dials the session bus until it succeeds, ctx is cancelled or
// maxWait elapses. The service may still be starting when the window opens.
func DialWithRetry(ctx context.Context, maxWait time.Duration, logger *slog.Logger) (*Client, error) {
	return dialWithRetry(ctx, maxWait, logger, func() (*Client, error) { return Dial(logger) })
}

func dialWithRetry(ctx context.Context, maxWait time.Duration, logger *slog.Logger, dial func() (*Client, error)) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if maxWait <= 0 {
		maxWait = DefaultDialWait
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 100 * time.Millisecond
	eb.MaxInterval = 2 * time.Second
	eb.MaxElapsedTime = maxWait

	var client *Client
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		c, err := dial()
		if err != nil {
			logger.Debug("session bus not ready", "attempt", attempt, "error", err)
			return err
		}
		client = c
		return nil
	}, backoff.WithContext(eb, ctx))
	if err != nil {
		return nil, fmt.Errorf("dial session bus after %d attempts: %w", attempt, err)
	}
	return client, nil
}
