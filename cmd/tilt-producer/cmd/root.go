package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/orientation-lock/internal/config"
	"github.com/oshokin/orientation-lock/internal/service/producer"
	"github.com/oshokin/orientation-lock/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// broker overrides the MQTT broker URL.
	broker string
	// source overrides the IMU source.
	source string

	// rootCmd publishes tilt samples.
	rootCmd = &cobra.Command{
		Use:   "tilt-producer",
		Short: "Publish tilt samples to the MQTT tilt topic.",
		Long: `Reads the accelerometer and publishes beta/gamma tilt samples on the
configured MQTT tilt topic, where the orientation lock server picks them up.

The mock source sweeps the device between portrait and landscape; the mpu9250
source reads a sensor on SPI.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return producer.Run(ctx, &producer.Options{
				ConfigPath: configPath,
				Broker:     broker,
				Source:     source,
			})
		},
	}
)

// Execute runs the tilt-producer CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&broker, "broker", "", "MQTT broker URL, overrides config")
	rootCmd.Flags().StringVar(&source, "source", "", "IMU source: mock or mpu9250, overrides config")
}
