package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/relaydesk/internal/config"
	"github.com/jmylchreest/relaydesk/internal/peer"
)

var peersOpts struct {
	format string
}

var peersCmd = &cobra.Command{
	Use:   "peers",
	Short: "List remembered peers",
	Long: `List the peers this client has connected to, most recent first.
Favorites are marked with '*'.

Examples:
  # Table of recent peers
  relaydesk peers

  # Machine-readable output
  relaydesk peers --format json`,
	Args: cobra.NoArgs,
	RunE: runPeers,
}

var peersRemoveCmd = &cobra.Command{
	Use:   "remove <id>...",
	Short: "Forget one or more peers",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPeersRemove,
}

func init() {
	rootCmd.AddCommand(peersCmd)
	peersCmd.AddCommand(peersRemoveCmd)

	peersCmd.Flags().StringVarP(&peersOpts.format, "format", "f", formatTable,
		"Output format (table, json, yaml)")
}

func openPeers() *peer.Store {
	return peer.NewStore(config.PeersDir(), config.FavoritesPath(), logger)
}

func runPeers(cmd *cobra.Command, args []string) error {
	peers := openPeers()
	records, err := peers.Peers()
	if err != nil {
		return fmt.Errorf("failed to list peers: %w", err)
	}
	favorites, err := peers.Favorites()
	if err != nil {
		logger.Warn("failed to load favorites", "error", err)
	}
	return writePeers(cmd.OutOrStdout(), peerRows(records, favorites), peersOpts.format, time.Now())
}

func runPeersRemove(cmd *cobra.Command, args []string) error {
	peers := openPeers()
	for _, id := range args {
		if err := peers.Remove(id); err != nil {
			return fmt.Errorf("failed to remove %s: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
	}
	return nil
}
