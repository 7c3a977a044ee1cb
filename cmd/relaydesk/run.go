package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmylchreest/relaydesk/internal/audio"
	"github.com/jmylchreest/relaydesk/internal/bootstrap"
	"github.com/jmylchreest/relaydesk/internal/config"
	"github.com/jmylchreest/relaydesk/internal/display"
	"github.com/jmylchreest/relaydesk/internal/facade"
	"github.com/jmylchreest/relaydesk/internal/frontend"
	"github.com/jmylchreest/relaydesk/internal/httpreq"
	"github.com/jmylchreest/relaydesk/internal/ipc"
	"github.com/jmylchreest/relaydesk/internal/jobs"
	"github.com/jmylchreest/relaydesk/internal/lan"
	"github.com/jmylchreest/relaydesk/internal/launch"
	"github.com/jmylchreest/relaydesk/internal/peer"
	"github.com/jmylchreest/relaydesk/internal/platform"
	"github.com/jmylchreest/relaydesk/internal/session"
	"github.com/jmylchreest/relaydesk/internal/tasks"
	"github.com/jmylchreest/relaydesk/internal/update"
)

const (
	shutdownTimeout  = 3 * time.Second
	reapInterval     = time.Second
	chimeWatchPeriod = 2 * time.Second
	serviceDialWait  = 3 * time.Second
	optionLanguage   = "lang"
)

// noChanges stands in for the peer watcher when inotify is unavailable.
type noChanges struct{}

func (noChanges) Updated() bool { return false }

// runWindow classifies the launch tokens, wires the collaborators and runs
// the window until it closes.
func runWindow(args []string) error {
	mode, err := launch.Parse(args)
	if err != nil {
		logger.Error("invalid launch arguments", "args", args, "error", err)
		return err
	}
	logger.Debug("starting", "mode", mode.String(), "version", version)

	cfg := store.Config()
	group := tasks.NewGroup(logger)
	registry := session.NewRegistry(logger)

	peers := peer.NewStore(config.PeersDir(), config.FavoritesPath(), logger)
	var changes facade.ChangeWatcher = noChanges{}
	watcher, err := peer.NewWatcher(peers, logger)
	if err != nil {
		logger.Warn("peer watcher unavailable", "error", err)
	} else if err := watcher.Start(); err != nil {
		logger.Warn("failed to start peer watcher", "error", err)
	} else {
		changes = watcher
	}

	client := dialService()

	discovered := peer.NewDiscoveredCache(config.DiscoveredPath())
	discoverer := lan.NewDiscoverer(discovered, cfg.Discovery.Port, logger,
		lan.WithBroadcast(cfg.Discovery.Broadcast),
		lan.WithWait(cfg.Discovery.Wait.Duration()))

	checker := update.NewChecker(env.UpdateURLOr(cfg.Update.URL), version, cfg.Update.Timeout.Duration(), logger)

	host := platform.Local()
	children := tasks.NewChildren()
	spawner := platform.NewSpawner(host, children, logger)

	translator, err := frontend.NewTranslator(language())
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}

	handler := facade.New(facade.Deps{
		Version:    version,
		Identity:   client,
		Options:    store,
		Peers:      peers,
		Discovered: discovered,
		Watcher:    changes,
		Discoverer: discoverer,
		Waker:      lan.NewWaker(discovered, cfg.Discovery.Broadcast),
		Updates:    checker,
		Requester:  httpreq.NewRequester(0),
		Prober:     httpreq.NewProber(config.DefaultRendezvousPort, 0),
		Host:       host,
		Launcher:   spawner,
		Installer:  platform.NewInstaller(host, version, logger),
		Spawner:    group,
		Jobs:       jobs.NewTracker(),
		Sessions:   registry,
		Translator: translator,
		Logger:     logger,
	})

	bootTasks := bootstrap.Tasks{
		ReapZombies: tasks.ReapZombies(logger, reapInterval, children),
	}
	if cfg.Update.Enabled {
		bootTasks.CheckUpdate = checker.Run
	}
	if host.HasAudioRelay() {
		bootTasks.AudioRelay = audio.NewRelay(audio.SocketPath(), nil, logger).Run
	}

	window := display.New(cfg.CM, logger)
	b := &bootstrap.Bootstrapper{
		Frame:      window,
		Handler:    handler,
		Spawner:    group,
		Tasks:      bootTasks,
		Sessions:   registry,
		Connector:  ipc.NewConnector(client),
		InputHook:  platform.NewInputHook(host),
		Detached:   env.Detached,
		CMEvents:   client,
		CMControls: client,
		Logger:     logger,
	}

	var player *audio.Player
	if _, ok := mode.(launch.ConnectionManager); ok {
		player = audio.NewPlayer(logger)
		chime := audio.NewChime(player, cfg.Audio.SoundPath(), cfg.Audio.Volume, cfg.Audio.Enabled, logger)
		group.Go("chime-watch", func(ctx context.Context) error {
			return chime.Watch(ctx, chimeWatchPeriod)
		})
		b.Chime = chime
	}

	page, err := b.Boot(mode)
	if err != nil {
		return err
	}
	if err := window.Load(page); err != nil {
		return err
	}

	status := window.Run()

	if err := registry.Close(); err != nil {
		logger.Warn("failed to close session", "error", err)
	}
	if stuck := group.Shutdown(shutdownTimeout); len(stuck) > 0 {
		logger.Warn("tasks still running at exit", "tasks", stuck)
	}
	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			logger.Debug("failed to stop peer watcher", "error", err)
		}
	}
	if player != nil {
		player.Close()
	}
	if err := client.Close(); err != nil {
		logger.Debug("failed to close service connection", "error", err)
	}

	if status != 0 {
		os.Exit(status)
	}
	return nil
}

// dialService connects to the background service. Without it the window
// still opens and every service call reports ipc.ErrNotConnected.
func dialService() *ipc.Client {
	ctx, cancel := context.WithTimeout(context.Background(), serviceDialWait)
	defer cancel()

	client, err := ipc.DialWithRetry(ctx, serviceDialWait, logger)
	if err != nil {
		logger.Warn("service unavailable", "error", err)
		return ipc.NewClient(nil, logger)
	}
	return client
}

// language picks the UI language: the saved choice, then the locale.
func language() string {
	if l := store.LocalOption(optionLanguage); l != "" {
		return l
	}
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if l := os.Getenv(key); l != "" {
			return l
		}
	}
	return ""
}
