package audio

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"
)

// DefaultMinGap is the shortest interval between two chimes.
const DefaultMinGap = 500 * time.Millisecond

// Chime rings when a client connects. Bursts of connections ring once.
type Chime struct {
	player  *Player
	path    string
	enabled bool
	minGap  time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	lastRing time.Time
	modTime  time.Time
}

// NewChime creates a chime that plays path (or the built-in tone when empty)
// at the given volume, 0-100.
func NewChime(player *Player, path string, volume int, enabled bool, logger *slog.Logger) *Chime {
	if logger == nil {
		logger = slog.Default()
	}
	player.SetVolume(float64(volume) / 100.0)
	c := &Chime{
		player:  player,
		path:    expandPath(path),
		enabled: enabled,
		minGap:  DefaultMinGap,
		logger:  logger,
		now:     time.Now,
	}
	if info, err := os.Stat(c.path); err == nil {
		c.modTime = info.ModTime()
	}
	return c
}

// Ring plays the chime unless it rang within the minimum gap.
// It reports whether the sound was started.
func (c *Chime) Ring() bool {
	if c == nil || !c.enabled {
		return false
	}

	c.mu.Lock()
	now := c.now()
	if !c.lastRing.IsZero() && now.Sub(c.lastRing) < c.minGap {
		c.mu.Unlock()
		return false
	}
	c.lastRing = now
	c.mu.Unlock()

	if err := c.player.Play(c.path); err != nil {
		c.logger.Debug("chime failed", "error", err)
		return false
	}
	return true
}

// Watch polls the sound file and decodes it again when it changes, until ctx
// is cancelled.
func (c *Chime) Watch(ctx context.Context, interval time.Duration) error {
	if c.path == "" {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.checkForChanges()
		}
	}
}

func (c *Chime) checkForChanges() {
	info, err := os.Stat(c.path)
	if err != nil {
		return
	}

	c.mu.Lock()
	changed := info.ModTime().After(c.modTime)
	if changed {
		c.modTime = info.ModTime()
	}
	c.mu.Unlock()

	if changed {
		c.logger.Debug("chime file changed, invalidating cache", "path", c.path)
		c.player.InvalidateCache(c.path)
		if err := c.player.Preload(c.path); err != nil {
			c.logger.Warn("failed to decode changed chime", "path", c.path, "error", err)
		}
	}
}
