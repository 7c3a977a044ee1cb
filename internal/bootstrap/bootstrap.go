// Package bootstrap wires the launch mode into the host window: it binds the
// handler, registers behaviors, starts background work and picks the page.
package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmylchreest/relaydesk/internal/cm"
	"github.com/jmylchreest/relaydesk/internal/frontend"
	"github.com/jmylchreest/relaydesk/internal/launch"
	"github.com/jmylchreest/relaydesk/internal/remote"
	"github.com/jmylchreest/relaydesk/internal/session"
	"github.com/jmylchreest/relaydesk/internal/tasks"
)

// ErrUnknownMode is returned for a mode value Boot does not handle.
var ErrUnknownMode = errors.New("unknown launch mode")

// Frame is the host window as seen by the bootstrapper.
type Frame interface {
	SetTitle(title string)
	SetEventHandler(h frontend.EventHandler)
	RegisterBehavior(name string, f frontend.Factory)
}

// InputHook installs the native input hook for remote control.
type InputHook interface {
	Enable() error
}

// Spawner runs background work. *tasks.Group implements it.
type Spawner interface {
	Go(name string, fn tasks.Func)
}

// Tasks are the background units started for the default window. A nil task
// is skipped.
type Tasks struct {
	ReapZombies tasks.Func
	CheckUpdate tasks.Func
	// AudioRelay is nil where there is no local audio subsystem.
	AudioRelay tasks.Func
}

// Bootstrapper prepares the frame for one launch mode.
type Bootstrapper struct {
	Frame   Frame
	Handler frontend.EventHandler
	Spawner Spawner
	Tasks   Tasks

	// Remote control
	Sessions  *session.Registry
	Connector session.Connector
	InputHook InputHook
	// Detached sessions are not published into Sessions.
	Detached bool

	// Connection manager
	CMEvents   cm.Events
	CMControls cm.Controls
	Chime      cm.Ringer

	Logger *slog.Logger
}

func (b *Bootstrapper) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

// Boot configures the frame for m and returns the page to load.
func (b *Bootstrapper) Boot(m launch.Mode) (frontend.Page, error) {
	switch m := m.(type) {
	case launch.Default:
		b.bootDefault()
		return frontend.PageHome, nil
	case launch.Install:
		b.Frame.SetEventHandler(b.Handler)
		return frontend.PageInstall, nil
	case launch.ConnectionManager:
		b.Frame.RegisterBehavior(frontend.BehaviorConnectionManager, b.newConnectionManager)
		return frontend.PageCM, nil
	case launch.RemoteControl:
		b.bootRemote(m)
		return frontend.PageRemote, nil
	default:
		return "", fmt.Errorf("%w: %v", ErrUnknownMode, m)
	}
}

func (b *Bootstrapper) bootDefault() {
	b.spawn("zombie-reaper", b.Tasks.ReapZombies)
	b.spawn("update-check", b.Tasks.CheckUpdate)
	b.Frame.SetEventHandler(b.Handler)
	b.spawn("audio-relay", b.Tasks.AudioRelay)
}

func (b *Bootstrapper) spawn(name string, fn tasks.Func) {
	if fn == nil {
		return
	}
	b.Spawner.Go(name, fn)
}

func (b *Bootstrapper) newConnectionManager() frontend.Behavior {
	m := cm.New(b.CMEvents, b.CMControls, b.Chime, b.logger())
	if err := m.Start(); err != nil {
		b.logger().Warn("connection manager cannot receive client events", "error", err)
	}
	return m
}

func (b *Bootstrapper) bootRemote(m launch.RemoteControl) {
	if b.InputHook != nil {
		if err := b.InputHook.Enable(); err != nil {
			b.logger().Warn("input hook unavailable", "error", err)
		}
	}
	b.Frame.SetTitle(m.TargetID)
	b.Frame.RegisterBehavior(frontend.BehaviorRemote, func() frontend.Behavior {
		s := session.New(session.ParamsFromMode(m))
		h := remote.New(s, b.Connector, b.Spawner, b.logger())
		h.Start()
		if !b.Detached {
			b.Sessions.Register(s)
		}
		return h
	})
}
