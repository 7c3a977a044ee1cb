package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ReapInterval is how often ReapZombies collects exited children.
const ReapInterval = time.Second

// Children is the set of detached child processes nobody else waits on.
// Processes run through exec.Cmd.Wait must never be added.
type Children struct {
	mu   sync.Mutex
	pids map[int]struct{}
}

// NewChildren creates an empty set.
func NewChildren() *Children {
	return &Children{pids: make(map[int]struct{})}
}

// Add records a released child for reaping.
func (c *Children) Add(pid int) {
	if pid <= 0 {
		return
	}
	c.mu.Lock()
	c.pids[pid] = struct{}{}
	c.mu.Unlock()
}

// Len returns how many children are still waiting to be reaped.
func (c *Children) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pids)
}

// reap waits on each tracked child without blocking and forgets the ones
// that are gone.
func (c *Children) reap() int {
	c.mu.Lock()
	pids := make([]int, 0, len(c.pids))
	for pid := range c.pids {
		pids = append(pids, pid)
	}
	c.mu.Unlock()

	n := 0
	for _, pid := range pids {
		if !reapChild(pid) {
			continue
		}
		c.mu.Lock()
		delete(c.pids, pid)
		c.mu.Unlock()
		n++
	}
	return n
}

// ReapZombies collects the exited children in children every interval until
// ctx is done. Only those children are waited on.
func ReapZombies(logger *slog.Logger, interval time.Duration, children *Children) Func {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = ReapInterval
	}
	return func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := children.reap(); n > 0 {
					logger.Debug("reaped child processes", "count", n)
				}
			}
		}
	}
}
