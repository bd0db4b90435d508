package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/orientation-lock/internal/config"
	"github.com/oshokin/orientation-lock/internal/service/demo"
	"github.com/oshokin/orientation-lock/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logFile receives the log while the UI runs.
	logFile string

	// rootCmd runs the terminal demo.
	rootCmd = &cobra.Command{
		Use:   "orientation-lock-demo",
		Short: "Play with the orientation lock in the terminal.",
		Long: `Runs the orientation lock controller in-process over a simulated phone.

Keys: l lock, u unlock, d dismiss the alert, arrows tilt the phone,
p report portrait, o rotate the screen, q quit.
A missing configuration file falls back to the defaults.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return demo.Run(ctx, &demo.Options{
				ConfigPath: configPath,
				LogFile:    logFile,
			})
		},
	}
)

// Execute runs the orientation-lock-demo CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logFile, "log-file", "l", "", "log file path (defaults to the temp directory)")
}
