package main

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/relaydesk/internal/ipc"
)

var idOpts struct {
	copy bool
}

var idCmd = &cobra.Command{
	Use:   "id",
	Short: "Print this device's id",
	Long: `Print the id other peers use to connect to this device. The background
service must be running.

Examples:
  relaydesk id
  relaydesk id --copy`,
	Args: cobra.NoArgs,
	RunE: runID,
}

func init() {
	rootCmd.AddCommand(idCmd)
	idCmd.Flags().BoolVarP(&idOpts.copy, "copy", "c", false,
		"Also copy the id to the clipboard")
}

func runID(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), serviceDialWait)
	defer cancel()

	client, err := ipc.DialWithRetry(ctx, serviceDialWait, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	id, err := client.ID(ctx)
	if err != nil {
		return fmt.Errorf("failed to read id: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)

	if idOpts.copy {
		if err := clipboard.WriteAll(id); err != nil {
			return fmt.Errorf("failed to copy id: %w", err)
		}
	}
	return nil
}
