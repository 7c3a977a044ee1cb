package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

var optionOpts struct {
	local bool
}

var optionCmd = &cobra.Command{
	Use:   "option",
	Short: "Read and change stored options",
	Long: `Read and change the options shared with the service, or with --local
the per-user options.

Examples:
  # List all shared options
  relaydesk option list

  # Point the client at a self-hosted server
  relaydesk option set custom-rendezvous-server rs.example.com

  # Clear it again
  relaydesk option set custom-rendezvous-server ""`,
}

var optionGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print an option value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if optionOpts.local {
			fmt.Fprintln(cmd.OutOrStdout(), store.LocalOption(args[0]))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), store.Option(args[0]))
		return nil
	},
}

var optionSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set an option; an empty value removes it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if optionOpts.local {
			err = store.SetLocalOption(args[0], args[1])
		} else {
			err = store.SetOption(args[0], args[1])
		}
		if err != nil {
			return fmt.Errorf("failed to save option: %w", err)
		}
		return nil
	},
}

var optionListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all shared options",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := store.Options()
		keys := make([]string, 0, len(opts))
		for k := range opts {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, opts[k])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(optionCmd)
	optionCmd.AddCommand(optionGetCmd, optionSetCmd, optionListCmd)

	optionCmd.PersistentFlags().BoolVar(&optionOpts.local, "local", false,
		"Use per-user options instead of shared ones")
}
