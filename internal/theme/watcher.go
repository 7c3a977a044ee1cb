package theme

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"time"
)

// DefaultPollInterval is how often the override file is checked.
const DefaultPollInterval = time.Second

// Watcher polls a stylesheet and reports new CSS to a callback.
type Watcher struct {
	sheet    *Stylesheet
	interval time.Duration
	onChange func(css string)
	logger   *slog.Logger
}

// NewWatcher creates a watcher for sheet. A zero interval uses
// DefaultPollInterval.
func NewWatcher(sheet *Stylesheet, interval time.Duration, onChange func(css string), logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{sheet: sheet, interval: interval, onChange: onChange, logger: logger}
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *Watcher) check() {
	changed, err := w.sheet.Reload()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			w.logger.Warn("failed to reload stylesheet", "path", w.sheet.Path, "error", err)
		}
		return
	}
	if changed {
		w.logger.Info("stylesheet changed, reloading", "path", w.sheet.Path)
		if w.onChange != nil {
			w.onChange(w.sheet.CSS)
		}
	}
}
