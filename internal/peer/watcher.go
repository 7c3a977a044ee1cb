package peer

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Watcher flags changes to the peers directory and the favorites file so the
// home page can refresh its lists.
type Watcher struct {
	watcher   *fsnotify.Watcher
	paths     []string
	peersDir  string
	favorites string
	logger    *slog.Logger
	updated   atomic.Bool
	done      chan struct{}
	mu        sync.Mutex
	running   bool
}

// NewWatcher creates a watcher for the store's peers directory and favorites
// file.
func NewWatcher(s *Store, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:   watcher,
		paths:     []string{s.dir, filepath.Dir(s.favoritesPath)},
		peersDir:  filepath.Clean(s.dir),
		favorites: filepath.Clean(s.favoritesPath),
		logger:    logger,
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching. Missing directories are created so they can be watched.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	for _, p := range w.paths {
		if err := os.MkdirAll(p, 0700); err != nil {
			return err
		}
		if err := w.watcher.Add(p); err != nil {
			return err
		}
	}
	w.running = true
	go w.watch()
	return nil
}

func (w *Watcher) watch() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.logger.Debug("peer data changed", "file", event.Name)
				w.updated.Store(true)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("peer watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// relevant filters out other config files and the temp files written
// during atomic saves.
func (w *Watcher) relevant(name string) bool {
	name = filepath.Clean(name)
	if name == w.favorites {
		return true
	}
	return filepath.Dir(name) == w.peersDir && filepath.Ext(name) == ".toml"
}

// Updated reports whether anything changed since the last call.
func (w *Watcher) Updated() bool {
	return w.updated.Swap(false)
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return w.watcher.Close()
	}
	w.running = false
	close(w.done)
	return w.watcher.Close()
}
