package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/orientation-lock/internal/config"
	"github.com/oshokin/orientation-lock/internal/service/server"
	"github.com/oshokin/orientation-lock/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// httpAddress overrides the HTTP listen address.
	httpAddress string
	// broker overrides the MQTT broker URL.
	broker string

	// rootCmd represents the base command for running the lock server.
	rootCmd = &cobra.Command{
		Use:   "orientation-lock-server [listen-address]",
		Short: "Run the orientation lock server.",
		Long: `Starts the orientation lock controller over a simulated device and serves it
over gRPC and, when an HTTP address is configured, a JSON and websocket API.

Only the port from ServerAddress config is used for listening (e.g., :50051).
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:50051).
When an MQTT broker is configured, tilt samples and orientation changes are read
from the bus and rotation alerts are published back to it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return server.Run(ctx, &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				HTTPAddress:   httpAddress,
				Broker:        broker,
			})
		},
	}
)

// Execute runs the orientation-lock-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&httpAddress, "http", "", "HTTP listen address, overrides config")
	rootCmd.Flags().StringVar(&broker, "broker", "", "MQTT broker URL, overrides config")
}
