package facade

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/jmylchreest/relaydesk/internal/config"
	"github.com/jmylchreest/relaydesk/internal/httpreq"
	"github.com/jmylchreest/relaydesk/internal/jobs"
)

// GetOption returns a shared option, or "" when unset.
func (a *Adapter) GetOption(key string) string {
	return a.Options.Option(key)
}

// SetOption sets a shared option. An empty value removes it.
func (a *Adapter) SetOption(key, value string) {
	a.command("set-option", a.Options.SetOption(key, value))
}

// GetOptions returns all shared options.
func (a *Adapter) GetOptions() map[string]string {
	return a.Options.Options()
}

// SetOptions replaces all options. Entries with empty values are dropped.
func (a *Adapter) SetOptions(opts map[string]string) {
	kept := make(map[string]string, len(opts))
	for k, v := range opts {
		if v != "" {
			kept[k] = v
		}
	}
	a.command("set-options", a.Options.SetOptions(kept))
}

// GetLocalOption returns a per-user option, or "" when unset.
func (a *Adapter) GetLocalOption(key string) string {
	return a.Options.LocalOption(key)
}

// SetLocalOption sets a per-user option. An empty value removes it.
func (a *Adapter) SetLocalOption(key, value string) {
	a.command("set-local-option", a.Options.SetLocalOption(key, value))
}

// GetSocks returns [proxy, username, password], or an empty slice when no
// proxy is configured.
func (a *Adapter) GetSocks() []string {
	s := a.Options.Socks()
	if s.Proxy == "" {
		return []string{}
	}
	return []string{s.Proxy, s.Username, s.Password}
}

// SetSocks sets the SOCKS5 proxy. An empty proxy disables it.
func (a *Adapter) SetSocks(proxy, username, password string) {
	a.command("set-socks", a.Options.SetSocks(config.SocksConfig{
		Proxy:    proxy,
		Username: username,
		Password: password,
	}))
}

// UsingPublicServer reports whether no custom rendezvous server is set.
func (a *Adapter) UsingPublicServer() bool {
	return a.Options.Option(config.OptionRendezvousServer) == ""
}

// GetAPIServer returns the configured API server. Without one it is derived
// from a custom rendezvous server (same host, rendezvous port minus two), and
// falls back to the public API server.
func (a *Adapter) GetAPIServer() string {
	return apiServer(a.Options.Option(config.OptionAPIServer), a.Options.Option(config.OptionRendezvousServer))
}

func apiServer(api, rendezvous string) string {
	if api != "" {
		return api
	}
	if rendezvous == "" {
		return config.DefaultAPIServer
	}
	host, port := rendezvous, config.DefaultAPIPort
	if h, p, err := net.SplitHostPort(rendezvous); err == nil {
		host = h
		if n, err := strconv.Atoi(p); err == nil {
			port = n - 2
		}
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

// TestIfValidServer checks the syntax of host immediately and returns the
// error text, or "" when it is well formed. Reachability is then checked in
// the background and polled with GetAsyncJobStatus(jobs.KeyServerCheck). A
// malformed host clears the result of any earlier check.
func (a *Adapter) TestIfValidServer(host string, withProxy bool) string {
	addr, err := a.Prober.Normalize(host)
	if err != nil {
		a.Jobs.Reset(jobs.KeyServerCheck)
		return err.Error()
	}

	var socks *httpreq.Socks
	if withProxy {
		if s := a.Options.Socks(); s.Proxy != "" {
			socks = &httpreq.Socks{Proxy: s.Proxy, Username: s.Username, Password: s.Password}
		}
	}
	a.runJob(jobs.KeyServerCheck, func(ctx context.Context) (string, error) {
		return "", a.Prober.Probe(ctx, addr, socks)
	})
	return ""
}

// Closing records the window geometry when the window closes.
func (a *Adapter) Closing(x, y, w, h int) {
	a.command("save-size", a.Options.SetSize(x, y, w, h))
}

// GetSize returns the saved window geometry [x, y, w, h].
func (a *Adapter) GetSize() []int {
	return a.Options.Size()
}

// IsShareRDP reports whether RDP sessions are shared with remote peers.
func (a *Adapter) IsShareRDP() bool {
	return a.Options.Option(config.OptionShareRDP) == "Y"
}

// SetShareRDP turns RDP sharing on or off.
func (a *Adapter) SetShareRDP(enable bool) {
	value := ""
	if enable {
		value = "Y"
	}
	a.command("set-share-rdp", a.Options.SetOption(config.OptionShareRDP, value))
}

// VideoSaveDirectory returns where session recordings are written. A
// configured directory wins over the platform default, which differs when
// running as root.
func (a *Adapter) VideoSaveDirectory(root bool) string {
	if dir := a.Options.Option(config.OptionVideoSaveDir); dir != "" {
		return dir
	}
	return a.Host.VideoDir(root)
}
