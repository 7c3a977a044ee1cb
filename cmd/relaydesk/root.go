package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/relaydesk/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	env        config.Env
	store      *config.Store
	globalOpts struct {
		verbose bool
	}
	logger *slog.Logger
)

// rootCmd opens the desktop window when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "relaydesk [--install | --cm | --connect ID | --file-transfer ID | --port-forward ID | --rdp ID | --play FILE]",
	Short: "Remote desktop client",
	Long: `relaydesk is a remote desktop client.

Without arguments it opens the main window. A single mode flag selects
another window instead:

  --install             installer
  --cm                  connection manager for incoming sessions
  --connect ID          remote control of peer ID
  --file-transfer ID    file transfer with peer ID
  --port-forward ID     port forwarding to peer ID
  --rdp ID              RDP forwarding to peer ID
  --play FILE           connect to the peer named by FILE's stem

Set RELAYDESK_DEBUG=1 for debug logging in window modes.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	// Mode tokens are parsed by the launch package, not by cobra.
	DisableFlagParsing: true,
	Args:               cobra.ArbitraryArgs,
	SilenceUsage:       true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		env, err = config.ParseEnv()
		if err != nil {
			return err
		}
		setupLogger(env.Debug || globalOpts.verbose)

		if err := config.EnsureDirs(); err != nil {
			return fmt.Errorf("failed to create config directories: %w", err)
		}
		store, err = config.OpenStore(env.ConfigPath, env.LocalConfigPath, logger)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		switch leadingFlag(args) {
		case "help":
			return cmd.Help()
		case "version":
			fmt.Fprintln(cmd.OutOrStdout(), cmd.Version)
			return nil
		}
		return runWindow(args)
	},
}

// leadingFlag reports whether the first token asks for help or the version.
// Later tokens are arguments of the window mode and are left alone.
func leadingFlag(args []string) string {
	if len(args) == 0 {
		return ""
	}
	switch args[0] {
	case "--help", "-h":
		return "help"
	case "--version":
		return "version"
	}
	return ""
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
}

// setupLogger configures the global slog logger.
func setupLogger(debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}
