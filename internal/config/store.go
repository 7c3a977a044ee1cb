package config

import (
	"log/slog"
	"maps"
	"sync"
)

// Store serializes access to the shared and local configuration and writes
// each change through to disk.
type Store struct {
	mu        sync.RWMutex
	cfg       *Config
	local     *LocalConfig
	cfgPath   string
	localPath string
	logger    *slog.Logger
}

// OpenStore loads both configuration files. Empty paths use the defaults.
func OpenStore(cfgPath, localPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfgPath == "" {
		cfgPath = ConfigPath()
	}
	if localPath == "" {
		localPath = LocalConfigPath()
	}

	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	local, err := LoadLocalConfig(localPath)
	if err != nil {
		return nil, err
	}
	return &Store{
		cfg:       cfg,
		local:     local,
		cfgPath:   cfgPath,
		localPath: localPath,
		logger:    logger,
	}, nil
}

// Config returns a copy of the shared configuration.
func (s *Store) Config() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

// Option returns a shared option, or "" when unset.
func (s *Store) Option(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Options[key]
}

// SetOption sets a shared option. An empty value removes the key.
func (s *Store) SetOption(key, value string) error {
	return s.updateConfig(func(c *Config) {
		setOrDelete(c.Options, key, value)
	})
}

// Options returns a copy of all shared options.
func (s *Store) Options() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.cfg.Options)
}

// SetOptions replaces the shared option set. Keys with empty values are dropped.
func (s *Store) SetOptions(opts map[string]string) error {
	next := make(map[string]string, len(opts))
	for k, v := range opts {
		if v != "" {
			next[k] = v
		}
	}

	return s.updateConfig(func(c *Config) {
		c.Options = next
	})
}

// LocalOption returns a local option, or "" when unset.
func (s *Store) LocalOption(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.local.Options[key]
}

// SetLocalOption sets a local option. An empty value removes the key.
func (s *Store) SetLocalOption(key, value string) error {
	return s.updateLocal(func(c *LocalConfig) {
		setOrDelete(c.Options, key, value)
	})
}

// Socks returns the proxy settings.
func (s *Store) Socks() SocksConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Socks
}

// SetSocks replaces the proxy settings. An empty proxy disables it.
func (s *Store) SetSocks(socks SocksConfig) error {
	if socks.Proxy == "" {
		socks = SocksConfig{}
	}
	return s.updateConfig(func(c *Config) {
		c.Socks = socks
	})
}

// RemoteID returns the last id entered on the home page.
func (s *Store) RemoteID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.local.UI.RemoteID
}

// SetRemoteID remembers the last id entered on the home page.
func (s *Store) SetRemoteID(id string) error {
	return s.updateLocal(func(c *LocalConfig) {
		c.UI.RemoteID = id
	})
}

// Size returns the saved window geometry as x, y, width, height.
func (s *Store) Size() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int(nil), s.local.UI.Size...)
}

// SetSize saves the window geometry.
func (s *Store) SetSize(x, y, w, h int) error {
	return s.updateLocal(func(c *LocalConfig) {
		c.UI.Size = []int{x, y, w, h}
	})
}

// updateConfig applies fn to a copy of the shared configuration and keeps
// the copy only once it is on disk.
func (s *Store) updateConfig(fn func(*Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cfg.Clone()
	fn(next)
	if err := next.Save(s.cfgPath); err != nil {
		s.logger.Warn("failed to save config", "path", s.cfgPath, "error", err)
		return err
	}
	s.cfg = next
	return nil
}

// updateLocal is updateConfig for the local configuration.
func (s *Store) updateLocal(fn func(*LocalConfig)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.local.Clone()
	fn(next)
	if err := next.Save(s.localPath); err != nil {
		s.logger.Warn("failed to save local config", "path", s.localPath, "error", err)
		return err
	}
	s.local = next
	return nil
}

func setOrDelete(m map[string]string, key, value string) {
	if value == "" {
		delete(m, key)
		return
	}
	m[key] = value
}
