package facade

import (
	"context"

	"github.com/jmylchreest/relaydesk/internal/config"
	"github.com/jmylchreest/relaydesk/internal/httpreq"
	"github.com/jmylchreest/relaydesk/internal/ipc"
	"github.com/jmylchreest/relaydesk/internal/peer"
	"github.com/jmylchreest/relaydesk/internal/tasks"
)

// Identity is the service that owns the local id and credentials.
// *ipc.Client implements it.
type Identity interface {
	ID(ctx context.Context) (string, error)
	TemporaryPassword(ctx context.Context) (string, error)
	UpdateTemporaryPassword(ctx context.Context) error
	PermanentPassword(ctx context.Context) (string, error)
	SetPermanentPassword(ctx context.Context, password string) error
	ChangeID(ctx context.Context, id string) error
	HasValid2FA(ctx context.Context) (bool, error)
	Generate2FA(ctx context.Context) (string, error)
	Verify2FA(ctx context.Context, code string) (bool, error)
	VerifyLogin(ctx context.Context, secret, code string) (bool, error)
	Fingerprint(ctx context.Context) (string, error)
	UUID(ctx context.Context) (string, error)
	ConnectStatus(ctx context.Context) (ipc.ConnectStatus, error)
	LoginDeviceInfo(ctx context.Context) (string, error)
}

// Options is the application and local configuration. *config.Store
// implements it.
type Options interface {
	Option(key string) string
	SetOption(key, value string) error
	Options() map[string]string
	SetOptions(opts map[string]string) error
	LocalOption(key string) string
	SetLocalOption(key, value string) error
	Socks() config.SocksConfig
	SetSocks(socks config.SocksConfig) error
	RemoteID() string
	SetRemoteID(id string) error
	Size() []int
	SetSize(x, y, w, h int) error
}

// Peers is the per-peer record store. *peer.Store implements it.
type Peers interface {
	Get(id string) (peer.Record, error)
	Peers() ([]peer.Record, error)
	Remove(id string) error
	Option(id, key string) string
	SetOption(id, key, value string) error
	HasPassword(id string) bool
	ForgetPassword(id string) error
	Favorites() ([]string, error)
	StoreFavorites(ids []string) error
}

// DiscoveredPeers is the LAN discovery cache. *peer.DiscoveredCache
// implements it.
type DiscoveredPeers interface {
	Load() ([]peer.Discovered, error)
	Remove(id string) error
}

// ChangeWatcher reports whether the peer store changed since the last call.
type ChangeWatcher interface {
	Updated() bool
}

// Discoverer pings the LAN for peers.
type Discoverer interface {
	Discover(ctx context.Context) ([]peer.Discovered, error)
}

// Waker sends wake-on-LAN packets.
type Waker interface {
	Wake(ctx context.Context, id string) error
}

// Updates exposes the result of the update check.
type Updates interface {
	NewVersion() string
	DownloadURL() string
}

// Requester performs front-end HTTP requests.
type Requester interface {
	Do(ctx context.Context, req httpreq.Request) (httpreq.Response, error)
	Post(ctx context.Context, url, body, header string) (string, error)
}

// Prober checks rendezvous server addresses.
type Prober interface {
	Normalize(host string) (string, error)
	Probe(ctx context.Context, host string, socks *httpreq.Socks) error
}

// Host answers platform questions. *platform.Host implements it.
type Host interface {
	IsRoot() bool
	InstallPath() string
	InstalledVersion() string
	IsInstalled() bool
	IsInstalledDaemon() bool
	CurrentIsWayland() bool
	IsLoginWayland() bool
	IsXfce() bool
	IsProcessTrusted() bool
	CanScreenRecord() bool
	SoftwareExt() string
	SoftwareStorePath(version string) string
	VideoDir(root bool) string
	SoundInputs() []string
}

// Launcher starts other processes. *platform.Spawner implements it.
type Launcher interface {
	Self(args ...string) error
	OpenURL(url string) error
}

// Installer installs or updates the application.
type Installer interface {
	Install(ctx context.Context, options, path string) error
	Update(ctx context.Context, path string) error
}

// Spawner runs background work. *tasks.Group implements it.
type Spawner interface {
	Go(name string, fn tasks.Func)
}

// Sessions reads the active session slot. *session.Registry implements it.
type Sessions interface {
	CurrentID() string
}

// Translator looks up front-end strings.
type Translator interface {
	T(name string) string
	Langs() [][2]string
}
