package controller

import (
	"context"
	"time"

	"github.com/oshokin/orientation-lock/internal/domain/lock"
)

// DefaultAlertDuration is how long an alert stays up before it clears itself.
const DefaultAlertDuration = 3 * time.Second

// AlertHandler is called, outside the controller lock, for every raised alert.
type AlertHandler func(ctx context.Context, alert Alert)

// Option configures a Controller.
type Option func(*Controller)

// WithTarget sets the lock target policy.
func WithTarget(target lock.Target) Option {
	return func(c *Controller) {
		if target != "" {
			c.target = target
		}
	}
}

// WithAlertDuration sets how long an alert stays visible.
func WithAlertDuration(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.alertDuration = d
		}
	}
}

// WithThreshold sets the tilt threshold in degrees.
func WithThreshold(threshold float64) Option {
	return func(c *Controller) {
		if threshold > 0 {
			c.threshold = threshold
		}
	}
}

// WithAlertHandler registers a callback for raised alerts. Handlers run in
// the order they were registered.
func WithAlertHandler(h AlertHandler) Option {
	return func(c *Controller) {
		if h != nil {
			c.alertHandlers = append(c.alertHandlers, h)
		}
	}
}
