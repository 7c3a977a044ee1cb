package display

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/relaydesk/internal/config"
	"github.com/jmylchreest/relaydesk/internal/frontend"
	"github.com/jmylchreest/relaydesk/internal/theme"
)

// AppID is the GApplication id.
const AppID = "io.github.jmylchreest.relaydesk"

// statusInterval is how often behavior summaries are polled.
const statusInterval = 500 * time.Millisecond

type registration struct {
	name    string
	factory frontend.Factory
}

type mounted struct {
	name     string
	behavior frontend.Behavior
	status   *gtk.Label
}

// Window is the host window. Configure it with the Frame methods and Load,
// then call Run on the main thread.
type Window struct {
	app    *adw.Application
	cm     config.CMConfig
	logger *slog.Logger

	title         string
	page          frontend.Page
	handler       frontend.EventHandler
	registrations []registration

	window       *gtk.Window
	provider     *gtk.CSSProvider
	userProvider *gtk.CSSProvider
	behaviors    []mounted
	stopOnce     sync.Once
	stopCh       chan struct{}
	stopTheme    context.CancelFunc
}

// New creates an unloaded window.
func New(cm config.CMConfig, logger *slog.Logger) *Window {
	if logger == nil {
		logger = slog.Default()
	}
	return &Window{
		app:    adw.NewApplication(AppID, 0),
		cm:     cm,
		logger: logger,
		title:  config.AppName,
		stopCh: make(chan struct{}),
	}
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.title = title
	if w.window != nil {
		w.window.SetTitle(title)
	}
}

// SetEventHandler binds the handler the page calls into.
func (w *Window) SetEventHandler(h frontend.EventHandler) {
	w.handler = h
}

// RegisterBehavior registers a factory for an element type on the page.
func (w *Window) RegisterBehavior(name string, f frontend.Factory) {
	w.registrations = append(w.registrations, registration{name: name, factory: f})
}

// Load selects the page shown when the window opens.
func (w *Window) Load(page frontend.Page) error {
	if !page.Valid() {
		return fmt.Errorf("unknown page %q", page)
	}
	w.page = page
	return nil
}

// Run opens the window and blocks until it closes. It returns the
// application's exit status.
func (w *Window) Run() int {
	w.app.ConnectActivate(w.activate)
	w.app.ConnectShutdown(w.teardown)
	// Mode tokens are already consumed; GApplication gets only the program name.
	return w.app.Run(os.Args[:1])
}

func (w *Window) activate() {
	if w.window != nil {
		w.window.Present()
		return
	}

	w.applyStylesheet()

	w.window = gtk.NewWindow()
	w.window.SetApplication(&w.app.Application)
	w.window.SetTitle(w.title)
	w.window.AddCSSClass("relaydesk")
	w.window.AddCSSClass(string(w.page))

	if w.page == frontend.PageCM {
		w.anchorConnectionManager()
	} else if w.handler != nil {
		if size := w.handler.GetSize(); len(size) == 4 && size[2] > 0 && size[3] > 0 {
			w.window.SetDefaultSize(size[2], size[3])
		} else {
			w.window.SetDefaultSize(config.DefaultWindowWidth, config.DefaultWindowHeight)
		}
	}

	w.window.SetChild(w.buildPage())
	w.window.ConnectCloseRequest(func() bool {
		w.saveGeometry()
		return false
	})
	w.window.SetVisible(true)

	go w.pollStatus()
	w.logger.Debug("window ready", "page", w.page, "behaviors", len(w.behaviors))
}

func (w *Window) applyStylesheet() {
	css, ok := frontend.Stylesheet(w.page)
	if !ok {
		w.logger.Warn("no stylesheet for page", "page", w.page)
		return
	}
	display := gdk.DisplayGetDefault()
	if display == nil {
		w.logger.Warn("no display available, cannot apply stylesheet")
		return
	}
	w.provider = gtk.NewCSSProvider()
	w.provider.LoadFromString(css)
	gtk.StyleContextAddProviderForDisplay(display, w.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	w.applyUserStylesheet(display)
}

// applyUserStylesheet layers the user's override above the page and keeps
// it current while the window is open.
func (w *Window) applyUserStylesheet(display *gdk.Display) {
	sheet, err := theme.Load(theme.UserPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			w.logger.Warn("failed to load user stylesheet", "error", err)
		}
		return
	}
	w.userProvider = gtk.NewCSSProvider()
	w.userProvider.LoadFromString(sheet.CSS)
	gtk.StyleContextAddProviderForDisplay(display, w.userProvider, gtk.STYLE_PROVIDER_PRIORITY_USER)
	w.logger.Debug("loaded user stylesheet", "path", sheet.Path)

	watcher := theme.NewWatcher(sheet, 0, func(css string) {
		glib.IdleAdd(func() {
			w.userProvider.LoadFromString(css)
		})
	}, w.logger)
	ctx, cancel := context.WithCancel(context.Background())
	w.stopTheme = cancel
	go func() {
		_ = watcher.Run(ctx)
	}()
}

func (w *Window) buildPage() *gtk.Box {
	root := gtk.NewBox(gtk.OrientationVertical, 8)
	root.AddCSSClass("page")
	root.AddCSSClass(w.page.CSSClass())

	title := gtk.NewLabel(w.title)
	title.AddCSSClass("page-title")
	root.Append(title)

	if w.handler != nil {
		id := gtk.NewLabel("ID: " + w.handler.GetID())
		id.SetSelectable(true)
		root.Append(id)
		if pw := w.handler.TemporaryPassword(); pw != "" {
			pwLbl := gtk.NewLabel("Password: " + pw)
			pwLbl.SetSelectable(true)
			root.Append(pwLbl)
		}
	}

	for _, r := range w.registrations {
		b := r.factory()
		status := gtk.NewLabel(b.Summary())
		status.AddCSSClass("page-status")
		root.Append(status)
		w.behaviors = append(w.behaviors, mounted{name: r.name, behavior: b, status: status})
	}
	return root
}

// pollStatus refreshes behavior summaries on the main loop until teardown.
func (w *Window) pollStatus() {
	if len(w.behaviors) == 0 {
		return
	}
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()
	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			glib.IdleAdd(func() {
				for _, m := range w.behaviors {
					m.status.SetText(m.behavior.Summary())
				}
			})
		}
	}
}

func (w *Window) saveGeometry() {
	if w.handler == nil || w.page == frontend.PageCM {
		return
	}
	width, height := w.window.DefaultSize()
	// GTK4 does not expose window positions.
	w.handler.Closing(0, 0, width, height)
}

func (w *Window) teardown() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if w.stopTheme != nil {
			w.stopTheme()
		}
		for _, m := range w.behaviors {
			w.logger.Debug("detaching behavior", "behavior", m.name)
			m.behavior.Detach()
		}
		w.behaviors = nil
	})
}
