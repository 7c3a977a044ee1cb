package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "5s", "1m", "1h30m", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m', '1h30m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// AudioConfig controls the chime played when a client connects.
type AudioConfig struct {
	Enabled bool   `toml:"enabled"`
	Volume  int    `toml:"volume"` // 0-100
	Sound   string `toml:"sound"`  // Path to a wav/mp3/ogg file, empty = built-in tone
}

// SoundPath returns the chime path with ~ expanded.
func (a AudioConfig) SoundPath() string {
	return expandPath(a.Sound)
}

// CMConfig places the connection-manager window.
type CMConfig struct {
	Position string `toml:"position"` // "top-right", "bottom-right", etc.
	OffsetX  int    `toml:"offset_x"` // Pixels from screen edge
	OffsetY  int    `toml:"offset_y"`
	Width    int    `toml:"width"`
}

// Position is a screen corner or edge the CM window is anchored to.
type Position string

const (
	PositionTopLeft     Position = "top-left"
	PositionTopRight    Position = "top-right"
	PositionBottomLeft  Position = "bottom-left"
	PositionBottomRight Position = "bottom-right"
)

// Edges are the screen edges a window is anchored to.
type Edges struct {
	Top, Bottom, Left, Right bool
}

// Edges returns the anchor edges for the position.
func (p Position) Edges() Edges {
	return Edges{
		Top:    p == PositionTopLeft || p == PositionTopRight,
		Bottom: p == PositionBottomLeft || p == PositionBottomRight,
		Left:   p == PositionTopLeft || p == PositionBottomLeft,
		Right:  p == PositionTopRight || p == PositionBottomRight,
	}
}

// ValidPositions returns all valid position values.
func ValidPositions() []Position {
	return []Position{
		PositionTopLeft,
		PositionTopRight,
		PositionBottomLeft,
		PositionBottomRight,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(ValidPositions(), Position(c.CM.Position)) {
		return fmt.Errorf("invalid cm position %q, must be one of: %v", c.CM.Position, ValidPositions())
	}
	if c.CM.Width < 100 || c.CM.Width > 1000 {
		return fmt.Errorf("cm width must be between 100 and 1000, got %d", c.CM.Width)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}
	if c.Discovery.Port <= 0 || c.Discovery.Port > 65535 {
		return fmt.Errorf("discovery port out of range: %d", c.Discovery.Port)
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
