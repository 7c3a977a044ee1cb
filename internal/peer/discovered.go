package peer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// SchemaVersion is the current discovered-cache schema version.
const SchemaVersion = 1

// Discovered is a peer that answered a LAN discovery ping.
type Discovered struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Hostname string    `json:"hostname"`
	Platform string    `json:"platform"`
	IP       string    `json:"ip"`
	MAC      string    `json:"mac"`
	SeenAt   time.Time `json:"seen_at"`
}

// Fields returns the peer as [id, username, hostname, platform, alias].
// Discovered peers have no alias.
func (d Discovered) Fields() []string {
	return []string{d.ID, d.Username, d.Hostname, d.Platform, ""}
}

type discoveredFile struct {
	SchemaVersion int          `json:"relaydesk_schema_version"`
	Peers         []Discovered `json:"peers"`
}

// DiscoveredCache is the file-backed list of LAN peers.
type DiscoveredCache struct {
	mu   sync.Mutex
	path string
}

// NewDiscoveredCache creates a cache stored at path.
func NewDiscoveredCache(path string) *DiscoveredCache {
	return &DiscoveredCache{path: path}
}

// Path returns the cache file path.
func (c *DiscoveredCache) Path() string { return c.path }

// Load returns the cached peers ordered by id. A missing file is an empty cache.
func (c *DiscoveredCache) Load() ([]Discovered, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

func (c *DiscoveredCache) load() ([]Discovered, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read discovered cache: %w", err)
	}

	var f discoveredFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse discovered cache: %w", err)
	}
	if f.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("unsupported schema version %d (max: %d)", f.SchemaVersion, SchemaVersion)
	}
	return f.Peers, nil
}

// Merge adds found peers to the cache. A peer already present is replaced
// by the newer reply with the same id.
func (c *DiscoveredCache) Merge(found []Discovered) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.load()
	if err != nil {
		// A corrupt cache is rebuilt from this round's replies.
		existing = nil
	}

	byID := make(map[string]Discovered, len(existing)+len(found))
	for _, d := range existing {
		byID[d.ID] = d
	}
	for _, d := range found {
		if d.ID == "" {
			continue
		}
		byID[d.ID] = d
	}
	return c.write(byID)
}

// Remove drops one peer from the cache.
func (c *DiscoveredCache) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.load()
	if err != nil {
		return err
	}
	byID := make(map[string]Discovered, len(existing))
	for _, d := range existing {
		if d.ID != id {
			byID[d.ID] = d
		}
	}
	if len(byID) == len(existing) {
		return nil
	}
	return c.write(byID)
}

// Lookup returns the cached peer with the given id.
func (c *DiscoveredCache) Lookup(id string) (Discovered, bool) {
	peers, err := c.Load()
	if err != nil {
		return Discovered{}, false
	}
	for _, d := range peers {
		if d.ID == id {
			return d, true
		}
	}
	return Discovered{}, false
}

func (c *DiscoveredCache) write(byID map[string]Discovered) error {
	peers := make([]Discovered, 0, len(byID))
	for _, d := range byID {
		peers = append(peers, d)
	}
	slices.SortFunc(peers, func(a, b Discovered) int { return strings.Compare(a.ID, b.ID) })

	data, err := json.Marshal(discoveredFile{SchemaVersion: SchemaVersion, Peers: peers})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(c.path), err)
	}
	return writeAtomic(c.path, data)
}
