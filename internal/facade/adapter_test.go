package facade

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/relaydesk/internal/config"
	"github.com/jmylchreest/relaydesk/internal/frontend"
	"github.com/jmylchreest/relaydesk/internal/httpreq"
	"github.com/jmylchreest/relaydesk/internal/ipc"
	"github.com/jmylchreest/relaydesk/internal/jobs"
	"github.com/jmylchreest/relaydesk/internal/peer"
	"github.com/jmylchreest/relaydesk/internal/tasks"
)

type fakeIdentity struct {
	mu        sync.Mutex
	id        string
	err       error
	changeErr error
	changedTo string
	rotated   int
	permanent string
}

func (f *fakeIdentity) ID(context.Context) (string, error) { return f.id, f.err }
func (f *fakeIdentity) TemporaryPassword(context.Context) (string, error) {
	return "tmp-pw", f.err
}
func (f *fakeIdentity) UpdateTemporaryPassword(context.Context) error {
	f.rotated++
	return f.err
}
func (f *fakeIdentity) PermanentPassword(context.Context) (string, error) {
	return f.permanent, f.err
}
func (f *fakeIdentity) SetPermanentPassword(_ context.Context, pw string) error {
	f.permanent = pw
	return f.err
}
func (f *fakeIdentity) ChangeID(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changedTo = id
	return f.changeErr
}
func (f *fakeIdentity) HasValid2FA(context.Context) (bool, error)  { return true, f.err }
func (f *fakeIdentity) Generate2FA(context.Context) (string, error) { return "otpauth://x", f.err }
func (f *fakeIdentity) Verify2FA(_ context.Context, code string) (bool, error) {
	return code == "123456", f.err
}
func (f *fakeIdentity) VerifyLogin(_ context.Context, secret, code string) (bool, error) {
	return secret == "s" && code == "1", f.err
}
func (f *fakeIdentity) Fingerprint(context.Context) (string, error) { return "ab:cd", f.err }
func (f *fakeIdentity) UUID(context.Context) (string, error)        { return "uuid-1", f.err }
func (f *fakeIdentity) ConnectStatus(context.Context) (ipc.ConnectStatus, error) {
	return ipc.ConnectStatus{Status: 1, KeyConfirmed: true, ID: f.id}, f.err
}
func (f *fakeIdentity) LoginDeviceInfo(context.Context) (string, error) { return `{"os":"linux"}`, f.err }

type fakeWatcher struct{ updated bool }

func (f *fakeWatcher) Updated() bool {
	u := f.updated
	f.updated = false
	return u
}

type fakeDiscoverer struct {
	cache *peer.DiscoveredCache
	found []peer.Discovered
	calls int
}

func (f *fakeDiscoverer) Discover(context.Context) ([]peer.Discovered, error) {
	f.calls++
	return f.found, f.cache.Merge(f.found)
}

type fakeWaker struct{ woken []string }

func (f *fakeWaker) Wake(_ context.Context, id string) error {
	f.woken = append(f.woken, id)
	return nil
}

type fakeUpdates struct{ version, url string }

func (f fakeUpdates) NewVersion() string  { return f.version }
func (f fakeUpdates) DownloadURL() string { return f.url }

type fakeRequester struct {
	resp httpreq.Response
	err  error
}

func (f *fakeRequester) Do(context.Context, httpreq.Request) (httpreq.Response, error) {
	return f.resp, f.err
}
func (f *fakeRequester) Post(_ context.Context, _, body, _ string) (string, error) {
	return "echo:" + body, f.err
}

type fakeHost struct {
	root, installed, wayland, loginWayland bool
	installedVersion                       string
	soundInputs                            []string
}

func (f *fakeHost) IsRoot() bool                 { return f.root }
func (f *fakeHost) InstallPath() string          { return "/usr/lib/relaydesk" }
func (f *fakeHost) InstalledVersion() string     { return f.installedVersion }
func (f *fakeHost) IsInstalled() bool            { return f.installed }
func (f *fakeHost) IsInstalledDaemon() bool      { return f.installed }
func (f *fakeHost) CurrentIsWayland() bool       { return f.wayland }
func (f *fakeHost) IsLoginWayland() bool         { return f.loginWayland }
func (f *fakeHost) IsXfce() bool                 { return false }
func (f *fakeHost) IsProcessTrusted() bool       { return true }
func (f *fakeHost) CanScreenRecord() bool        { return true }
func (f *fakeHost) SoftwareExt() string          { return "deb" }
func (f *fakeHost) SoftwareStorePath(v string) string {
	return "/tmp/relaydesk-" + v + ".deb"
}
func (f *fakeHost) SoundInputs() []string { return f.soundInputs }
func (f *fakeHost) VideoDir(root bool) string {
	if root {
		return "/var/lib/relaydesk/videos"
	}
	return "/home/u/Videos/relaydesk"
}

type fakeLauncher struct {
	launched [][]string
	opened   []string
}

func (f *fakeLauncher) Self(args ...string) error {
	f.launched = append(f.launched, args)
	return nil
}
func (f *fakeLauncher) OpenURL(url string) error {
	f.opened = append(f.opened, url)
	return nil
}

type fakeInstaller struct {
	err     error
	options string
	updated string
}

func (f *fakeInstaller) Install(_ context.Context, options, _ string) error {
	f.options = options
	return f.err
}
func (f *fakeInstaller) Update(_ context.Context, path string) error {
	f.updated = path
	return f.err
}

// syncSpawner runs tasks inline so job outcomes are visible on return.
type syncSpawner struct{ names []string }

func (s *syncSpawner) Go(name string, fn tasks.Func) {
	s.names = append(s.names, name)
	_ = fn(context.Background())
}

// heldSpawner keeps tasks until released.
type heldSpawner struct{ queued []tasks.Func }

func (s *heldSpawner) Go(_ string, fn tasks.Func) { s.queued = append(s.queued, fn) }

type fakeSessions struct{ id string }

func (f fakeSessions) CurrentID() string { return f.id }

type fixture struct {
	adapter    *Adapter
	identity   *fakeIdentity
	options    *config.Store
	peers      *peer.Store
	discovered *peer.DiscoveredCache
	watcher    *fakeWatcher
	discoverer *fakeDiscoverer
	waker      *fakeWaker
	requester  *fakeRequester
	host       *fakeHost
	launcher   *fakeLauncher
	installer  *fakeInstaller
	spawner    *syncSpawner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	opts, err := config.OpenStore(filepath.Join(dir, "config.toml"), filepath.Join(dir, "local.toml"), nil)
	require.NoError(t, err)
	tr, err := frontend.NewTranslator("en")
	require.NoError(t, err)

	f := &fixture{
		identity:   &fakeIdentity{id: "123456789"},
		options:    opts,
		peers:      peer.NewStore(filepath.Join(dir, "peers"), filepath.Join(dir, "favorites.json"), nil),
		discovered: peer.NewDiscoveredCache(filepath.Join(dir, "lan_peers.json")),
		watcher:    &fakeWatcher{},
		waker:      &fakeWaker{},
		requester:  &fakeRequester{},
		host:       &fakeHost{},
		launcher:   &fakeLauncher{},
		installer:  &fakeInstaller{},
		spawner:    &syncSpawner{},
	}
	f.discoverer = &fakeDiscoverer{cache: f.discovered}
	f.adapter = New(Deps{
		Version:    "1.5.0",
		Identity:   f.identity,
		Options:    f.options,
		Peers:      f.peers,
		Discovered: f.discovered,
		Watcher:    f.watcher,
		Discoverer: f.discoverer,
		Waker:      f.waker,
		Updates:    fakeUpdates{version: "1.6.0", url: "https://example.com/dl"},
		Requester:  f.requester,
		Prober:     httpreq.NewProber(config.DefaultRendezvousPort, time.Second),
		Host:       f.host,
		Launcher:   f.launcher,
		Installer:  f.installer,
		Spawner:    f.spawner,
		Jobs:       jobs.NewTracker(),
		Sessions:   fakeSessions{id: "01HSESSION"},
		Translator: tr,
	})
	return f
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"abcdef", true},
		{"a1_b-c2", true},
		{"Zzzzzzzzzzzzzzzz", true},
		{"abcde", false},
		{"abcdefghijklmnopq", false},
		{"1abcdef", false},
		{"_abcdef", false},
		{"abc def", false},
		{"abcdéf", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidID(tt.id))
		})
	}
}

func TestAdapter_IdentityQueries(t *testing.T) {
	f := newFixture(t)
	a := f.adapter

	assert.Equal(t, "123456789", a.GetID())
	assert.Equal(t, "tmp-pw", a.TemporaryPassword())
	assert.True(t, a.HasValid2FA())
	assert.True(t, a.Verify2FA("123456"))
	assert.False(t, a.Verify2FA("000000"))
	assert.True(t, a.VerifyLogin("s", "1"))
	assert.Equal(t, "ab:cd", a.GetFingerprint())
	assert.True(t, a.IsOkChangeID())
	assert.Equal(t, ConnectStatus{Status: 1, KeyConfirmed: true, ID: "123456789"}, a.GetConnectStatus())

	a.SetPermanentPassword("secret")
	assert.Equal(t, "secret", a.PermanentPassword())
	a.UpdateTemporaryPassword()
	assert.Equal(t, 1, f.identity.rotated)
}

func TestAdapter_IdentityDefaultsOnError(t *testing.T) {
	f := newFixture(t)
	f.identity.err = errors.New("service down")
	a := f.adapter

	assert.Empty(t, a.GetID())
	assert.Empty(t, a.TemporaryPassword())
	assert.False(t, a.HasValid2FA())
	assert.False(t, a.IsOkChangeID())
	assert.Equal(t, ConnectStatus{}, a.GetConnectStatus())
	assert.NotPanics(t, a.UpdateTemporaryPassword)
}

func TestAdapter_ChangeID(t *testing.T) {
	f := newFixture(t)
	a := f.adapter

	assert.Empty(t, a.GetAsyncJobStatus(jobs.KeyChangeID), "idle before any change")

	a.ChangeID("newid42")
	assert.Equal(t, "done", a.GetAsyncJobStatus(jobs.KeyChangeID))
	assert.Equal(t, "newid42", f.identity.changedTo)

	f.identity.changeErr = errors.New("id taken")
	a.ChangeID("other42")
	assert.Equal(t, "id taken", a.GetAsyncJobStatus(jobs.KeyChangeID))
}

func TestAdapter_ChangeIDRejectsInvalidInsideJob(t *testing.T) {
	f := newFixture(t)
	a := f.adapter

	a.ChangeID("1bad")
	assert.Equal(t, ErrInvalidID.Error(), a.GetAsyncJobStatus(jobs.KeyChangeID))
	assert.Empty(t, f.identity.changedTo, "service never asked")
}

func TestAdapter_ChangeIDLastWriterWins(t *testing.T) {
	f := newFixture(t)
	held := &heldSpawner{}
	f.adapter.Spawner = held
	a := f.adapter

	a.ChangeID("first1")
	a.ChangeID("second")
	require.Len(t, held.queued, 2)
	assert.Equal(t, "pending", a.GetAsyncJobStatus(jobs.KeyChangeID))

	// The newer job completes first, then the stale one.
	require.NoError(t, held.queued[1](context.Background()))
	f.identity.changeErr = errors.New("late failure")
	require.NoError(t, held.queued[0](context.Background()))

	assert.Equal(t, "done", a.GetAsyncJobStatus(jobs.KeyChangeID))
}

func TestAdapter_PeerStore(t *testing.T) {
	f := newFixture(t)
	a := f.adapter

	now := time.Now()
	require.NoError(t, f.peers.Save(peer.Record{ID: "111", Username: "ann", Hostname: "a", Platform: "Linux", AccessedAt: now.Add(-time.Hour)}))
	require.NoError(t, f.peers.Save(peer.Record{ID: "222", Username: "bob", Hostname: "b", Platform: "Windows", Alias: "work", AccessedAt: now, Password: "x"}))

	assert.Equal(t, [][]string{
		{"222", "bob", "b", "Windows", "work"},
		{"111", "ann", "a", "Linux", ""},
	}, a.GetRecentSessions())
	assert.Equal(t, []string{"111", "ann", "a", "Linux", ""}, a.GetPeer("111"))
	assert.Equal(t, []string{}, a.GetPeer("999"))

	assert.True(t, a.PeerHasPassword("222"))
	a.ForgetPassword("222")
	assert.False(t, a.PeerHasPassword("222"))

	a.SetPeerOption("111", "view-only", "Y")
	assert.Equal(t, "Y", a.GetPeerOption("111", "view-only"))

	a.StoreFav([]string{"222", "", "111"})
	assert.Equal(t, []string{"222", "111"}, a.GetFav())

	a.RemovePeer("222")
	assert.Equal(t, []string{"111"}, a.GetFav())
	assert.Len(t, a.GetRecentSessions(), 1)

	f.watcher.updated = true
	assert.True(t, a.RecentSessionsUpdated())
	assert.False(t, a.RecentSessionsUpdated())
}

func TestAdapter_RemoteID(t *testing.T) {
	f := newFixture(t)
	a := f.adapter
	a.SetRemoteID("555")
	assert.Equal(t, "555", a.GetRemoteID())
}

func TestAdapter_NewRemote(t *testing.T) {
	f := newFixture(t)
	a := f.adapter
	require.NoError(t, f.peers.Save(peer.Record{ID: "333"}))

	a.NewRemote("333", "file-transfer", true)
	assert.Equal(t, [][]string{{"--file-transfer", "333"}}, f.launcher.launched)
	assert.Equal(t, "Y", a.GetPeerOption("333", OptionForceRelay))

	a.NewRemote("333", "bogus", false)
	a.NewRemote("", "connect", false)
	assert.Len(t, f.launcher.launched, 1)
}

func TestAdapter_NewRemoteRelaySuffix(t *testing.T) {
	f := newFixture(t)
	a := f.adapter
	require.NoError(t, f.peers.Save(peer.Record{ID: "444"}))

	a.NewRemote("444/r", "connect", false)
	assert.Equal(t, [][]string{{"--connect", "444"}}, f.launcher.launched)
	assert.Equal(t, "Y", a.GetPeerOption("444", OptionForceRelay))
}

func TestAdapter_HandleRelayID(t *testing.T) {
	a := newFixture(t).adapter
	tests := []struct{ in, want string }{
		{"123456789", "123456789"},
		{"123456789/r", "123456789"},
		{`123456789\r`, "123456789"},
		{"peer@rd.example.com/r", "peer@rd.example.com"},
		{"/r", ""},
		{"12345/r/r", "12345/r"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, a.HandleRelayID(tt.in))
		})
	}
}

func TestAdapter_Options(t *testing.T) {
	f := newFixture(t)
	a := f.adapter

	a.SetOption("custom-rendezvous-server", "rd.example.com:21116")
	assert.Equal(t, "rd.example.com:21116", a.GetOption("custom-rendezvous-server"))
	assert.False(t, a.UsingPublicServer())

	a.SetOptions(map[string]string{"a": "1", "b": ""})
	assert.Equal(t, map[string]string{"a": "1"}, a.GetOptions())
	assert.True(t, a.UsingPublicServer())

	a.SetLocalOption("theme", "dark")
	assert.Equal(t, "dark", a.GetLocalOption("theme"))

	assert.Equal(t, []string{}, a.GetSocks())
	a.SetSocks("127.0.0.1:1080", "u", "p")
	assert.Equal(t, []string{"127.0.0.1:1080", "u", "p"}, a.GetSocks())
	a.SetSocks("", "u", "p")
	assert.Equal(t, []string{}, a.GetSocks())

	a.Closing(10, 20, 1024, 768)
	assert.Equal(t, []int{10, 20, 1024, 768}, a.GetSize())
}

func TestAdapter_ShareRDP(t *testing.T) {
	f := newFixture(t)
	a := f.adapter

	assert.False(t, a.IsShareRDP())
	a.SetShareRDP(true)
	assert.True(t, a.IsShareRDP())
	assert.Equal(t, "Y", f.options.Option(config.OptionShareRDP))
	a.SetShareRDP(false)
	assert.False(t, a.IsShareRDP())
	assert.NotContains(t, f.options.Options(), config.OptionShareRDP)
}

func TestAdapter_VideoSaveDirectory(t *testing.T) {
	f := newFixture(t)
	a := f.adapter

	assert.Equal(t, "/home/u/Videos/relaydesk", a.VideoSaveDirectory(false))
	assert.Equal(t, "/var/lib/relaydesk/videos", a.VideoSaveDirectory(true))

	a.SetOption(config.OptionVideoSaveDir, "/srv/recordings")
	assert.Equal(t, "/srv/recordings", a.VideoSaveDirectory(false))
	assert.Equal(t, "/srv/recordings", a.VideoSaveDirectory(true))
}

func TestAPIServer(t *testing.T) {
	tests := []struct {
		name, api, rendezvous, want string
	}{
		{"explicit", "https://api.example.com", "rd.example.com", "https://api.example.com"},
		{"public", "", "", config.DefaultAPIServer},
		{"derived default port", "", "rd.example.com", "http://rd.example.com:21114"},
		{"derived custom port", "", "rd.example.com:31116", "http://rd.example.com:31114"},
		{"ipv6", "", "[::1]:21116", "http://[::1]:21114"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apiServer(tt.api, tt.rendezvous))
		})
	}
}

func TestAdapter_TestIfValidServer(t *testing.T) {
	f := newFixture(t)
	a := f.adapter

	assert.NotEmpty(t, a.TestIfValidServer("bad host/", false))
	assert.Empty(t, a.GetAsyncJobStatus(jobs.KeyServerCheck), "no job for a syntax error")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	assert.Empty(t, a.TestIfValidServer(ln.Addr().String(), false))
	assert.Equal(t, "done", a.GetAsyncJobStatus(jobs.KeyServerCheck))

	addr := ln.Addr().String()
	ln.Close()
	assert.Empty(t, a.TestIfValidServer(addr, false))
	assert.Contains(t, a.GetAsyncJobStatus(jobs.KeyServerCheck), "cannot reach")

	assert.NotEmpty(t, a.TestIfValidServer("bad host/", false))
	assert.Empty(t, a.GetAsyncJobStatus(jobs.KeyServerCheck), "stale result cleared")
}

func TestAdapter_TestIfValidServerSupersedesPendingCheck(t *testing.T) {
	f := newFixture(t)
	held := &heldSpawner{}
	f.adapter.Spawner = held

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	assert.Empty(t, f.adapter.TestIfValidServer(ln.Addr().String(), false))
	assert.NotEmpty(t, f.adapter.TestIfValidServer("bad host/", false))
	require.Len(t, held.queued, 1)
	require.NoError(t, held.queued[0](context.Background()))
	assert.Empty(t, f.adapter.GetAsyncJobStatus(jobs.KeyServerCheck), "late check result is discarded")
}

func TestAdapter_Lifecycle(t *testing.T) {
	f := newFixture(t)
	a := f.adapter

	assert.Equal(t, "1.5.0", a.GetVersion())
	assert.Equal(t, config.AppName, a.GetAppName())
	assert.True(t, a.IsRelease())
	assert.Equal(t, "1.6.0", a.GetNewVersion())
	assert.Equal(t, "https://example.com/dl", a.GetSoftwareUpdateURL())
	assert.Equal(t, "/tmp/relaydesk-1.6.0.deb", a.GetSoftwareStorePath())
	assert.Equal(t, "01HSESSION", a.CurrentSession())

	var opts map[string]bool
	require.NoError(t, json.Unmarshal([]byte(a.InstallOptions()), &opts))
	assert.True(t, opts["desktopicon"])

	assert.True(t, a.ShowRunWithoutInstall())
	f.host.installed = true
	assert.False(t, a.ShowRunWithoutInstall())

	assert.False(t, a.IsInstalledLowerVersion())
	f.host.installedVersion = "1.4.9"
	assert.True(t, a.IsInstalledLowerVersion())
	f.host.installedVersion = "1.5.0"
	assert.False(t, a.IsInstalledLowerVersion())

	a.GotoInstall()
	a.RunWithoutInstall()
	assert.Equal(t, [][]string{{"--install"}, nil}, f.launcher.launched)

	a.OpenURL("https://example.com")
	assert.Equal(t, []string{"https://example.com"}, f.launcher.opened)
}

func TestAdapter_IsRelease(t *testing.T) {
	f := newFixture(t)
	for v, want := range map[string]bool{"1.5.0": true, "v2.0.0": true, "dev": false, "": false, "1.6.0-rc1": false} {
		f.adapter.Version = v
		assert.Equal(t, want, f.adapter.IsRelease(), v)
	}
}

func TestAdapter_InstallAndUpdateJobs(t *testing.T) {
	f := newFixture(t)
	a := f.adapter

	a.InstallMe("desktopicon", "")
	assert.Equal(t, "done", a.GetAsyncJobStatus(jobs.KeyInstall))
	assert.Equal(t, "desktopicon", f.installer.options)

	f.installer.err = errors.New("pkexec dismissed")
	a.UpdateMe("/tmp/x.deb")
	assert.Equal(t, "pkexec dismissed", a.GetAsyncJobStatus(jobs.KeyUpdate))
	assert.Equal(t, "/tmp/x.deb", f.installer.updated)
}

func TestAdapter_GetError(t *testing.T) {
	f := newFixture(t)
	a := f.adapter
	assert.Empty(t, a.GetError())

	f.host.wayland = true
	assert.Equal(t, "Unsupported display server", a.GetError())

	f.host.loginWayland = true
	assert.Empty(t, a.GetError())
}

func TestAdapter_HTTPRequest(t *testing.T) {
	f := newFixture(t)
	held := &heldSpawner{}
	f.adapter.Spawner = held
	a := f.adapter

	_, ok := a.GetHTTPStatus("https://example.com")
	assert.False(t, ok, "never requested")

	f.requester.resp = httpreq.Response{StatusCode: 404, Body: "nope"}
	a.HTTPRequest("https://example.com", "GET", "", "")
	_, ok = a.GetHTTPStatus("https://example.com")
	assert.False(t, ok, "pending")

	require.NoError(t, held.queued[0](context.Background()))
	got, ok := a.GetHTTPStatus("https://example.com")
	require.True(t, ok)
	assert.JSONEq(t, `{"status_code":404,"headers":null,"body":"nope"}`, got)

	f.requester.err = errors.New("dial tcp: refused")
	a.HTTPRequest("https://other.example.com", "GET", "", "")
	require.NoError(t, held.queued[1](context.Background()))
	got, ok = a.GetHTTPStatus("https://other.example.com")
	assert.True(t, ok)
	assert.Equal(t, "dial tcp: refused", got)
}

func TestAdapter_PostRequest(t *testing.T) {
	f := newFixture(t)
	a := f.adapter
	a.PostRequest("https://example.com", "hello", "")
	assert.Equal(t, "echo:hello", a.GetAsyncJobStatus(jobs.KeyPostRequest))
}

func TestAdapter_Networking(t *testing.T) {
	f := newFixture(t)
	a := f.adapter

	assert.Equal(t, "[]", a.GetLanPeers())

	f.discoverer.found = []peer.Discovered{{ID: "777", Username: "eve", Hostname: "lab", Platform: "Linux", MAC: "aa:bb:cc:dd:ee:ff"}}
	a.Discover()
	assert.Equal(t, 1, f.discoverer.calls)
	assert.JSONEq(t, `[{"id":"777","username":"eve","hostname":"lab","platform":"Linux"}]`, a.GetLanPeers())

	a.SendWOL("777")
	assert.Equal(t, []string{"777"}, f.waker.woken)

	a.RemoveDiscovered("777")
	assert.Equal(t, "[]", a.GetLanPeers())
	assert.Equal(t, []string{"lan-discovery", "wake-on-lan"}, f.spawner.names)
}

func TestAdapter_Translate(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "Your ID", f.adapter.T("Your ID"))
	assert.Equal(t, "unknown label", f.adapter.T("unknown label"))
}

func TestAdapter_GetLangs(t *testing.T) {
	f := newFixture(t)
	var langs [][]string
	require.NoError(t, json.Unmarshal([]byte(f.adapter.GetLangs()), &langs))
	assert.Contains(t, langs, []string{"en", "English"})
	assert.Contains(t, langs, []string{"de", "Deutsch"})
}

func TestAdapter_GetSoundInputs(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, []string{}, f.adapter.GetSoundInputs())

	f.host.soundInputs = []string{"alsa_input.usb-mic"}
	assert.Equal(t, []string{"alsa_input.usb-mic"}, f.adapter.GetSoundInputs())
}

func TestAdapter_ImplementsEventHandler(t *testing.T) {
	var _ frontend.EventHandler = newFixture(t).adapter
}
