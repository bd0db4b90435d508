package server

import (
	"context"
	"fmt"

	"github.com/oshokin/orientation-lock/internal/config"
	"github.com/oshokin/orientation-lock/internal/logger"
	"github.com/oshokin/orientation-lock/internal/platform/simulated"
	"github.com/oshokin/orientation-lock/internal/service/controller"
)

// AlertPublisher sends alerts somewhere outside the process.
type AlertPublisher interface {
	Publish(topic string, v any) error
}

// NewDevice builds the simulated device described by the settings.
func NewDevice(settings *config.Config) *simulated.Device {
	return simulated.New(simulated.Options{
		InitialType:           settings.Device.InitialOrientation,
		LockUnsupported:       settings.Device.LockUnsupported,
		FullscreenUnsupported: settings.Device.FullscreenUnsupported,
		RequireFullscreen:     settings.Device.RequireFullscreen,
		Permission:            settings.Device.Permission,
	})
}

// NewController creates and starts a controller over dev. Alerts are
// published on the alert topic when publisher is not nil.
func NewController(
	ctx context.Context,
	settings *config.Config,
	dev *simulated.Device,
	publisher AlertPublisher,
) (*controller.Controller, error) {
	opts := []controller.Option{
		controller.WithTarget(settings.Lock.Target),
		controller.WithThreshold(settings.Lock.TiltThreshold),
		controller.WithAlertDuration(settings.Lock.AlertDuration),
	}

	if publisher != nil {
		topic := settings.MQTT.AlertTopic
		opts = append(opts, controller.WithAlertHandler(func(ctx context.Context, alert controller.Alert) {
			// Publishing blocks on the broker; keep it off the sensor goroutine.
			go func() {
				if err := publisher.Publish(topic, alert); err != nil {
					logger.WarnKV(ctx, "Failed to publish alert", "alert_id", alert.ID.String(), "error", err)
				}
			}()
		}))
	}

	ctrl, err := controller.New(controller.Devices{
		Screen:     dev,
		Fullscreen: dev,
		Permission: dev,
		Tilt:       dev,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("create controller: %w", err)
	}

	if err := ctrl.Start(ctx); err != nil {
		return nil, fmt.Errorf("start controller: %w", err)
	}

	return ctrl, nil
}
