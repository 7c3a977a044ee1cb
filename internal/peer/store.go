// Package peer persists the peers this client has connected to, the user's
// favorites, and the cache of peers found on the local network.
package peer

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidID is returned for ids that cannot name a peer file.
var ErrInvalidID = errors.New("invalid peer id")

// ErrNotFound is returned when no record exists for a peer.
var ErrNotFound = errors.New("peer not found")

// Record is everything remembered about one peer.
type Record struct {
	ID         string            `toml:"id" json:"id" yaml:"id"`
	Username   string            `toml:"username" json:"username" yaml:"username"`
	Hostname   string            `toml:"hostname" json:"hostname" yaml:"hostname"`
	Platform   string            `toml:"platform" json:"platform" yaml:"platform"`
	Alias      string            `toml:"alias" json:"alias,omitempty" yaml:"alias,omitempty"`
	Options    map[string]string `toml:"options" json:"options,omitempty" yaml:"options,omitempty"`
	Password   string            `toml:"password" json:"-" yaml:"-"` // Opaque, written by the service
	AccessedAt time.Time         `toml:"accessed_at" json:"accessed_at" yaml:"accessed_at"`
}

// Fields returns the record as [id, username, hostname, platform, alias].
func (r Record) Fields() []string {
	return []string{r.ID, r.Username, r.Hostname, r.Platform, r.Alias}
}

// ValidateID rejects ids that are empty or could escape the peers directory.
func ValidateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// Store reads and writes peer records under one directory and keeps the
// favorites list next to it.
type Store struct {
	mu            sync.Mutex
	dir           string
	favoritesPath string
	logger        *slog.Logger
}

// NewStore creates a store rooted at dir. The directory is created lazily.
func NewStore(dir, favoritesPath string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, favoritesPath: favoritesPath, logger: logger}
}

// Dir returns the peers directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".toml")
}

// Get loads one peer.
func (s *Store) Get(id string) (Record, error) {
	if err := ValidateID(id); err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(s.path(id))
}

func (s *Store) load(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("read peer %s: %w", path, err)
	}
	var r Record
	if err := toml.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("parse peer %s: %w", path, err)
	}
	if r.ID == "" {
		r.ID = strings.TrimSuffix(filepath.Base(path), ".toml")
	}
	return r, nil
}

// Peers returns every stored peer, most recently accessed first.
// Unreadable files are logged and skipped.
func (s *Store) Peers() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list peers: %w", err)
	}

	var peers []Record
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".toml" {
			continue
		}
		r, err := s.load(filepath.Join(s.dir, e.Name()))
		if err != nil {
			s.logger.Warn("skipping unreadable peer file", "file", e.Name(), "error", err)
			continue
		}
		peers = append(peers, r)
	}

	slices.SortStableFunc(peers, func(a, b Record) int {
		if c := b.AccessedAt.Compare(a.AccessedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return peers, nil
}

// Save writes a peer record, replacing any existing one.
func (s *Store) Save(r Record) error {
	if err := ValidateID(r.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(r)
}

func (s *Store) save(r Record) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create peers directory: %w", err)
	}
	data, err := toml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal peer %s: %w", r.ID, err)
	}
	return writeAtomic(s.path(r.ID), data)
}

// update applies fn to a stored record and writes it back.
func (s *Store) update(id string, fn func(*Record)) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(s.path(id))
	if err != nil {
		return err
	}
	fn(&r)
	return s.save(r)
}

// Remove deletes a peer and drops it from the favorites.
// Removing an unknown peer is not an error.
func (s *Store) Remove(id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove peer %s: %w", id, err)
	}

	favs, err := s.favorites()
	if err != nil {
		return err
	}
	if i := slices.Index(favs, id); i >= 0 {
		return s.storeFavorites(slices.Delete(favs, i, i+1))
	}
	return nil
}

// Touch marks a peer as accessed now, creating the record if needed.
func (s *Store) Touch(id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(s.path(id))
	if errors.Is(err, ErrNotFound) {
		r = Record{ID: id}
	} else if err != nil {
		return err
	}
	r.AccessedAt = time.Now()
	return s.save(r)
}

// Option returns a per-peer option, or "" when unset.
func (s *Store) Option(id, key string) string {
	r, err := s.Get(id)
	if err != nil {
		return ""
	}
	return r.Options[key]
}

// SetOption sets a per-peer option. An empty value removes the key.
func (s *Store) SetOption(id, key, value string) error {
	return s.update(id, func(r *Record) {
		if value == "" {
			delete(r.Options, key)
			return
		}
		if r.Options == nil {
			r.Options = make(map[string]string)
		}
		r.Options[key] = value
	})
}

// Options returns a copy of the peer's options.
func (s *Store) Options(id string) map[string]string {
	r, err := s.Get(id)
	if err != nil {
		return map[string]string{}
	}
	if r.Options == nil {
		return map[string]string{}
	}
	return maps.Clone(r.Options)
}

// HasPassword reports whether a password is remembered for the peer.
func (s *Store) HasPassword(id string) bool {
	r, err := s.Get(id)
	return err == nil && r.Password != ""
}

// ForgetPassword drops the remembered password.
func (s *Store) ForgetPassword(id string) error {
	return s.update(id, func(r *Record) { r.Password = "" })
}

// Favorites returns the favorite peer ids in display order.
func (s *Store) Favorites() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites()
}

func (s *Store) favorites() ([]string, error) {
	data, err := os.ReadFile(s.favoritesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read favorites: %w", err)
	}
	var favs []string
	if err := json.Unmarshal(data, &favs); err != nil {
		return nil, fmt.Errorf("parse favorites: %w", err)
	}
	return favs, nil
}

// StoreFavorites replaces the favorites list. Empty and duplicate ids are
// dropped; order is kept.
func (s *Store) StoreFavorites(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeFavorites(ids)
}

func (s *Store) storeFavorites(ids []string) error {
	seen := make(map[string]bool, len(ids))
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		clean = append(clean, id)
	}

	data, err := json.Marshal(clean)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.favoritesPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return writeAtomic(s.favoritesPath, data)
}

// writeAtomic writes data via a temp file and rename.
func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
