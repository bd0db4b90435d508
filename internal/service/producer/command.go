package producer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/orientation-lock/internal/config"
	"github.com/oshokin/orientation-lock/internal/logger"
	"github.com/oshokin/orientation-lock/internal/platform/imu"
	"github.com/oshokin/orientation-lock/internal/platform/mqttfeed"
)

// Options controls the tilt producer.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Broker overrides the MQTT broker from config when set.
	Broker string
	// Source overrides the IMU source from config when set.
	Source string
}

// Publisher publishes a JSON document on a topic.
type Publisher interface {
	Publish(topic string, v any) error
}

var (
	// ErrNoBroker indicates that no MQTT broker is configured.
	ErrNoBroker = errors.New("no MQTT broker configured")
	// ErrUnknownSource indicates an unsupported IMU source name.
	ErrUnknownSource = errors.New("unknown IMU source")
)

// Run publishes tilt samples until ctx is cancelled.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "tilt-producer")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if opts.Broker != "" {
		settings.MQTT.Broker = opts.Broker
	}

	if opts.Source != "" {
		settings.IMU.Source = opts.Source
	}

	if !settings.MQTT.Enabled() {
		return ErrNoBroker
	}

	source, err := newSource(settings.IMU)
	if err != nil {
		return err
	}

	client, err := mqttfeed.Connect(ctx, mqttfeed.Options{
		Broker:   settings.MQTT.Broker,
		ClientID: settings.MQTT.ClientID + "-producer",
		Timeout:  settings.Timeout,
	})
	if err != nil {
		return fmt.Errorf("connect MQTT: %w", err)
	}

	defer mqttfeed.Disconnect(client)

	logger.InfoKV(ctx, "Publishing tilt samples",
		"source", settings.IMU.Source,
		"topic", settings.MQTT.TiltTopic,
		"interval", settings.IMU.SampleInterval)

	publish(ctx, source, mqttfeed.NewPublisher(client, settings.Timeout),
		settings.MQTT.TiltTopic, settings.IMU.SampleInterval)

	logger.Info(ctx, "Tilt producer stopped")

	return nil
}

// newSource opens the IMU source named in cfg.
func newSource(cfg config.IMUConfig) (imu.Source, error) {
	switch cfg.Source {
	case config.IMUSourceMPU9250:
		source, err := imu.NewMPU9250Source(cfg.SPIDevice, cfg.CSPin)
		if err != nil {
			return nil, fmt.Errorf("open MPU9250: %w", err)
		}

		return source, nil
	case config.IMUSourceMock, "":
		return imu.NewMockSource(nil), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
	}
}

// publish reads one sample per tick and publishes it on topic. Read and
// publish failures are logged and the tick is skipped.
func publish(ctx context.Context, source imu.Source, publisher Publisher, topic string, interval time.Duration) {
	if interval <= 0 {
		interval = config.DefaultSampleInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		sample, err := source.Next()
		if err != nil {
			logger.WarnKV(ctx, "Reading tilt sample failed", "error", err)

			continue
		}

		if err := publisher.Publish(topic, sample); err != nil {
			logger.WarnKV(ctx, "Publishing tilt sample failed", "error", err)

			continue
		}

		logger.DebugKV(ctx, "Tilt sample published", "beta", sample.Beta, "gamma", sample.Gamma)
	}
}
