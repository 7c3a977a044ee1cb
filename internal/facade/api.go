// Package facade is the fixed set of operations the front-end calls into the
// native layer.
//
// Every call runs on the window thread. Queries return a default value when
// the collaborator fails, commands log their errors, and anything that may
// block is started in the background with its outcome polled through
// GetAsyncJobStatus or GetHTTPStatus.
package facade

// API is the facade bound to the host window.
type API interface {
	// Identity
	GetID() string
	TemporaryPassword() string
	UpdateTemporaryPassword()
	PermanentPassword() string
	SetPermanentPassword(password string)
	ChangeID(id string)
	IsOkChangeID() bool
	GetAsyncJobStatus(key string) string
	HasValid2FA() bool
	Generate2FA() string
	Verify2FA(code string) bool
	VerifyLogin(secret, code string) bool
	GetFingerprint() string
	GetUUID() string
	GetConnectStatus() ConnectStatus
	GetLoginDeviceInfo() string

	// Peer store
	GetRemoteID() string
	SetRemoteID(id string)
	GetPeer(id string) []string
	GetRecentSessions() [][]string
	RecentSessionsUpdated() bool
	GetFav() []string
	StoreFav(ids []string)
	RemovePeer(id string)
	RemoveDiscovered(id string)
	PeerHasPassword(id string) bool
	ForgetPassword(id string)
	GetPeerOption(id, key string) string
	SetPeerOption(id, key, value string)
	NewRemote(id, kind string, forceRelay bool)
	HandleRelayID(id string) string

	// Configuration
	GetOption(key string) string
	SetOption(key, value string)
	GetOptions() map[string]string
	SetOptions(opts map[string]string)
	GetLocalOption(key string) string
	SetLocalOption(key, value string)
	GetSocks() []string
	SetSocks(proxy, username, password string)
	UsingPublicServer() bool
	GetAPIServer() string
	TestIfValidServer(host string, withProxy bool) string
	Closing(x, y, w, h int)
	GetSize() []int
	IsShareRDP() bool
	SetShareRDP(enable bool)
	VideoSaveDirectory(root bool) string

	// Lifecycle and status
	GetVersion() string
	GetAppName() string
	IsRelease() bool
	GetNewVersion() string
	GetSoftwareUpdateURL() string
	GetSoftwareExt() string
	GetSoftwareStorePath() string
	InstallPath() string
	InstallOptions() string
	IsInstalled() bool
	IsRoot() bool
	IsInstalledLowerVersion() bool
	ShowRunWithoutInstall() bool
	RunWithoutInstall()
	GotoInstall()
	InstallMe(options, path string)
	UpdateMe(path string)
	IsProcessTrusted() bool
	IsCanScreenRecording() bool
	IsInstalledDaemon() bool
	GetError() string
	IsLoginWayland() bool
	CurrentIsWayland() bool
	IsXfce() bool
	GetLicense() string
	OpenURL(url string)
	HTTPRequest(url, method, body, header string)
	PostRequest(url, body, header string)
	GetHTTPStatus(url string) (string, bool)
	T(name string) string
	GetLangs() string
	GetSoundInputs() []string
	CurrentSession() string

	// Networking
	Discover()
	GetLanPeers() string
	SendWOL(id string)
}

// ConnectStatus is the rendezvous state shown on the home page.
type ConnectStatus struct {
	Status       int32  `json:"status_num"`
	KeyConfirmed bool   `json:"key_confirmed"`
	ID           string `json:"id"`
}
