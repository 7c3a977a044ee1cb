// Package tasks runs detached background work for the lifetime of the process.
package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
	"time"
)

// Func is a unit of background work. It should return when ctx is done.
type Func func(ctx context.Context) error

// Group records every task it starts so they can be joined, or knowingly
// abandoned, at process shutdown. Tasks have no return channel; failures are
// logged.
type Group struct {
	mu      sync.Mutex
	logger  *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running map[string]int
	closed  bool
}

// NewGroup creates an empty task group.
func NewGroup(logger *slog.Logger) *Group {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Group{
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		running: make(map[string]int),
	}
}

// Go starts fn in its own goroutine. It never blocks the caller.
// Tasks started after Shutdown are dropped.
func (g *Group) Go(name string, fn Func) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		g.logger.Debug("task dropped after shutdown", "task", name)
		return
	}
	g.running[name]++
	g.wg.Add(1)
	ctx := g.ctx
	g.mu.Unlock()

	go func() {
		defer g.wg.Done()
		defer g.finish(name)

		start := time.Now()
		err := g.run(ctx, name, fn)
		switch {
		case err == nil:
			g.logger.Debug("task finished", "task", name, "elapsed", time.Since(start))
		case ctx.Err() != nil:
			g.logger.Debug("task stopped", "task", name, "error", err)
		default:
			g.logger.Warn("task failed", "task", name, "error", err)
		}
	}()
}

func (g *Group) run(ctx context.Context, name string, fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("task panicked", "task", name, "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("task %s panicked: %v", name, r)
		}
	}()
	return fn(ctx)
}

func (g *Group) finish(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running[name] <= 1 {
		delete(g.running, name)
		return
	}
	g.running[name]--
}

// Running returns the sorted names of tasks still in flight.
func (g *Group) Running() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	names := make([]string, 0, len(g.running))
	for name := range g.running {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Shutdown cancels the group's context and waits up to timeout for tasks to
// return. Tasks still running after the timeout are abandoned and reported.
func (g *Group) Shutdown(timeout time.Duration) []string {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	g.mu.Unlock()

	g.cancel()

	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		abandoned := g.Running()
		g.logger.Warn("abandoning background tasks", "tasks", abandoned)
		return abandoned
	}
}
