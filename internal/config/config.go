// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "relaydesk"

// Default configuration values.
const (
	DefaultUpdateURL      = "https://api.relaydesk.io/version/latest"
	DefaultAPIServer      = "https://admin.relaydesk.io"
	DefaultDiscoveryPort  = 21119
	DefaultAPIPort        = 21114
	DefaultWindowWidth    = 800
	DefaultWindowHeight   = 600
	DefaultRendezvousPort = 21116
)

// Well-known option keys.
const (
	OptionRendezvousServer = "custom-rendezvous-server"
	OptionAPIServer        = "api-server"
	OptionShareRDP         = "share-rdp"
	OptionVideoSaveDir     = "video-save-directory"
)

// Config is the application configuration shared with the service.
type Config struct {
	Options   map[string]string `toml:"options"`
	Socks     SocksConfig       `toml:"socks"`
	Update    UpdateConfig      `toml:"update"`
	Discovery DiscoveryConfig   `toml:"discovery"`
	Audio     AudioConfig       `toml:"audio"`
	CM        CMConfig          `toml:"cm"`
}

// SocksConfig describes the SOCKS5 proxy used for outgoing connections.
type SocksConfig struct {
	Proxy    string `toml:"proxy"` // host:port, empty = disabled
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// UpdateConfig controls the software update check.
type UpdateConfig struct {
	URL     string   `toml:"url"`
	Enabled bool     `toml:"enabled"`
	Timeout Duration `toml:"timeout"` // e.g. "10s"
}

// DiscoveryConfig controls LAN peer discovery.
type DiscoveryConfig struct {
	Port      int      `toml:"port"`
	Broadcast string   `toml:"broadcast"` // Broadcast address, empty = 255.255.255.255
	Wait      Duration `toml:"wait"`      // How long to collect replies
}

// LocalConfig holds per-user state that is never shared with the service.
type LocalConfig struct {
	UI      UIConfig          `toml:"ui"`
	Options map[string]string `toml:"options"`
}

// UIConfig holds window state persisted between launches.
type UIConfig struct {
	RemoteID string `toml:"remote_id"` // Last id typed into the home page
	Size     []int  `toml:"size"`      // x, y, width, height
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Options: make(map[string]string),
		Update: UpdateConfig{
			URL:     DefaultUpdateURL,
			Enabled: true,
			Timeout: Duration(10 * time.Second),
		},
		Discovery: DiscoveryConfig{
			Port: DefaultDiscoveryPort,
			Wait: Duration(3 * time.Second),
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  80,
		},
		CM: CMConfig{
			Position: string(PositionBottomRight),
			OffsetX:  10,
			OffsetY:  10,
			Width:    300,
		},
	}
}

// DefaultLocalConfig returns a LocalConfig with default values.
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{
		UI: UIConfig{
			Size: []int{0, 0, DefaultWindowWidth, DefaultWindowHeight},
		},
		Options: make(map[string]string),
	}
}

// ConfigDir returns the configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppName)
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LocalConfigPath returns the path to the local config file.
func LocalConfigPath() string {
	return filepath.Join(ConfigDir(), "local.toml")
}

// PeersDir returns the directory holding one file per known peer.
func PeersDir() string {
	return filepath.Join(ConfigDir(), "peers")
}

// FavoritesPath returns the path to the favorites list.
func FavoritesPath() string {
	return filepath.Join(ConfigDir(), "favorites.json")
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName)
}

// DiscoveredPath returns the path to the discovered-peers cache.
func DiscoveredPath() string {
	return filepath.Join(DataPath(), "lan_peers.json")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()
	if err := loadTOML(path, cfg); err != nil {
		return nil, err
	}
	if cfg.Options == nil {
		cfg.Options = make(map[string]string)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadLocalConfig loads the local configuration from path.
// Returns defaults if the file doesn't exist.
func LoadLocalConfig(path string) (*LocalConfig, error) {
	if path == "" {
		path = LocalConfigPath()
	}

	cfg := DefaultLocalConfig()
	if err := loadTOML(path, cfg); err != nil {
		return nil, err
	}
	if cfg.Options == nil {
		cfg.Options = make(map[string]string)
	}
	return cfg, nil
}

func loadTOML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// No config file, use defaults
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}
	return saveTOML(path, c)
}

// Save writes the local configuration to path.
func (c *LocalConfig) Save(path string) error {
	if path == "" {
		path = LocalConfigPath()
	}
	return saveTOML(path, c)
}

func saveTOML(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	out := *c
	out.Options = maps.Clone(c.Options)
	if out.Options == nil {
		out.Options = make(map[string]string)
	}
	return &out
}

// Clone returns a deep copy of the local config.
func (c *LocalConfig) Clone() *LocalConfig {
	out := *c
	out.Options = maps.Clone(c.Options)
	if out.Options == nil {
		out.Options = make(map[string]string)
	}
	out.UI.Size = append([]int(nil), c.UI.Size...)
	return &out
}

// EnsureDirs creates the config and data directories if they don't exist.
func EnsureDirs() error {
	for _, dir := range []string{ConfigDir(), DataPath()} {
		if dir == "" {
			return errors.New("unable to determine config or data directory")
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
