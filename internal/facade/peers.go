package facade

import (
	"strings"

	"github.com/jmylchreest/relaydesk/internal/launch"
)

// OptionForceRelay is the peer option NewRemote sets when relaying is forced.
const OptionForceRelay = "force-always-relay"

// relaySuffixes mark an id typed on the home page as relay-only.
var relaySuffixes = []string{`\r`, "/r"}

// SplitRelayID strips a relay suffix from id and reports whether one was
// present.
func SplitRelayID(id string) (string, bool) {
	for _, suffix := range relaySuffixes {
		if trimmed, ok := strings.CutSuffix(id, suffix); ok {
			return trimmed, true
		}
	}
	return id, false
}

// HandleRelayID returns id without its relay suffix.
func (a *Adapter) HandleRelayID(id string) string {
	trimmed, _ := SplitRelayID(id)
	return trimmed
}

// GetRemoteID returns the last id typed on the home page.
func (a *Adapter) GetRemoteID() string {
	return a.Options.RemoteID()
}

// SetRemoteID remembers the id typed on the home page.
func (a *Adapter) SetRemoteID(id string) {
	a.command("set-remote-id", a.Options.SetRemoteID(id))
}

// GetPeer returns [id, username, hostname, platform, alias], or an empty
// slice for an unknown peer.
func (a *Adapter) GetPeer(id string) []string {
	r, err := a.Peers.Get(id)
	if err != nil {
		a.logger.Debug("query failed", "query", "peer", "id", id, "error", err)
		return []string{}
	}
	return r.Fields()
}

// GetRecentSessions lists stored peers, most recently accessed first.
func (a *Adapter) GetRecentSessions() [][]string {
	records, err := a.Peers.Peers()
	if err != nil {
		a.logger.Debug("query failed", "query", "recent-sessions", "error", err)
		return [][]string{}
	}
	out := make([][]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Fields())
	}
	return out
}

// RecentSessionsUpdated reports whether the peer store changed since the
// last call.
func (a *Adapter) RecentSessionsUpdated() bool {
	return a.Watcher.Updated()
}

// GetFav returns the favorite peer ids.
func (a *Adapter) GetFav() []string {
	ids, err := a.Peers.Favorites()
	if err != nil {
		a.logger.Debug("query failed", "query", "favorites", "error", err)
		return []string{}
	}
	return ids
}

// StoreFav replaces the favorites. Empty ids are dropped.
func (a *Adapter) StoreFav(ids []string) {
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			kept = append(kept, id)
		}
	}
	a.command("store-favorites", a.Peers.StoreFavorites(kept))
}

// RemovePeer deletes the stored record of id.
func (a *Adapter) RemovePeer(id string) {
	a.command("remove-peer", a.Peers.Remove(id))
}

// RemoveDiscovered drops id from the LAN discovery cache.
func (a *Adapter) RemoveDiscovered(id string) {
	a.command("remove-discovered", a.Discovered.Remove(id))
}

// PeerHasPassword reports whether a password is remembered for id.
func (a *Adapter) PeerHasPassword(id string) bool {
	return a.Peers.HasPassword(id)
}

// ForgetPassword drops the remembered password of id.
func (a *Adapter) ForgetPassword(id string) {
	a.command("forget-password", a.Peers.ForgetPassword(id))
}

// GetPeerOption returns a per-peer option, or "" when unset.
func (a *Adapter) GetPeerOption(id, key string) string {
	return a.Peers.Option(id, key)
}

// SetPeerOption sets a per-peer option. An empty value removes it.
func (a *Adapter) SetPeerOption(id, key, value string) {
	a.command("set-peer-option", a.Peers.SetOption(id, key, value))
}

// NewRemote opens a new remote-control window for id in its own process.
// kind is one of connect, file-transfer, port-forward or rdp. An id with a
// relay suffix forces relaying as well.
func (a *Adapter) NewRemote(id, kind string, forceRelay bool) {
	id, suffixed := SplitRelayID(id)
	forceRelay = forceRelay || suffixed
	k := launch.RemoteKind(kind)
	if !k.Valid() || id == "" {
		a.logger.Warn("refusing to open remote", "id", id, "kind", kind)
		return
	}
	if forceRelay {
		a.command("set-peer-option", a.Peers.SetOption(id, OptionForceRelay, "Y"))
	}
	m := launch.RemoteControl{Kind: k, TargetID: id}
	a.command("new-remote", a.Launcher.Self(m.Args()...))
}
