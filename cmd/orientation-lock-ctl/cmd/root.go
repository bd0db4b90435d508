package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/orientation-lock/internal/config"
	"github.com/oshokin/orientation-lock/internal/domain/lock"
	"github.com/oshokin/orientation-lock/internal/service/client"
	"github.com/oshokin/orientation-lock/internal/service/watcher"
	"github.com/oshokin/orientation-lock/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// attempts bounds retries on transport errors.
	attempts int

	// rootCmd is the base command; every action is a subcommand.
	rootCmd = &cobra.Command{
		Use:   "orientation-lock-ctl",
		Short: "Control a running orientation lock server.",
		Long: `Sends lock, unlock and dismiss requests to the orientation lock server,
prints its state or follows state changes.

Each subcommand takes an optional server address that overrides the configuration file.`,
	}

	// watchCmd follows the state stream.
	watchCmd = &cobra.Command{
		Use:   "watch [server-address]",
		Short: "Print every lock state change until interrupted.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return watcher.Run(ctx, &watcher.Options{
				ConfigPath:    cfgPath,
				ServerAddress: firstArg(args),
				OnView: func(v lock.View) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), client.FormatView(v))
				},
			})
		},
	}
)

// actionCommand builds the subcommand for one client action.
func actionCommand(action client.Action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " [server-address]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			view, err := client.Run(ctx, &client.Options{
				ConfigPath:    cfgPath,
				ServerAddress: firstArg(args),
				Action:        action,
				Attempts:      attempts,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), client.FormatView(view))

			return err
		},
	}
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return ""
}

// Execute runs the orientation-lock-ctl CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().IntVarP(&attempts, "attempts", "a", 0, "tries on transport errors (0 uses the default)")

	rootCmd.AddCommand(
		actionCommand(client.ActionLock, "Lock the screen orientation."),
		actionCommand(client.ActionUnlock, "Release the orientation lock."),
		actionCommand(client.ActionStatus, "Print the current lock state."),
		actionCommand(client.ActionDismiss, "Dismiss the rotation alert popup."),
		watchCmd,
	)
}
