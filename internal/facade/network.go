package facade

import (
	"context"
	"encoding/json"
)

type lanPeer struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Hostname string `json:"hostname"`
	Platform string `json:"platform"`
}

// Discover pings the LAN in the background. Results land in the
// discovered-peer cache and are read with GetLanPeers.
func (a *Adapter) Discover() {
	a.Spawner.Go("lan-discovery", func(ctx context.Context) error {
		found, err := a.Discoverer.Discover(ctx)
		if err != nil {
			return err
		}
		a.logger.Debug("lan discovery finished", "found", len(found))
		return nil
	})
}

// GetLanPeers returns the discovered peers as a JSON array.
func (a *Adapter) GetLanPeers() string {
	found, err := a.Discovered.Load()
	if err != nil {
		a.logger.Debug("query failed", "query", "lan-peers", "error", err)
		return "[]"
	}
	out := make([]lanPeer, 0, len(found))
	for _, d := range found {
		out = append(out, lanPeer{ID: d.ID, Username: d.Username, Hostname: d.Hostname, Platform: d.Platform})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// SendWOL wakes the discovered peer id in the background.
func (a *Adapter) SendWOL(id string) {
	a.Spawner.Go("wake-on-lan", func(ctx context.Context) error {
		return a.Waker.Wake(ctx, id)
	})
}
