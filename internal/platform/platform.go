package platform

import (
	"context"
	"errors"

	"github.com/oshokin/orientation-lock/internal/domain/orientation"
)

// ErrLockNotSupported is returned by OrientationScreen.Lock when the platform
// has no orientation lock. Any other Lock error means the request was rejected.
var ErrLockNotSupported = errors.New("screen orientation lock not supported")

// OrientationScreen queries and pins the logical screen orientation.
type OrientationScreen interface {
	// Type returns the current orientation type, e.g. "portrait-primary".
	Type() string
	// Lock pins the screen to target ("portrait", "landscape-primary", ...).
	Lock(ctx context.Context, target string) error
	// Unlock releases the pin.
	Unlock(ctx context.Context) error
	// SubscribeChanges calls fn, without payload, after every orientation change.
	SubscribeChanges(fn func()) (cancel func())
}

// Fullscreen enters and leaves fullscreen mode. Both calls are best effort.
type Fullscreen interface {
	Enter(ctx context.Context) error
	Exit(ctx context.Context) error
	Active() bool
}

// MotionPermission asks the user for access to the tilt sensor.
// Callers must pass a context marked with WithUserGesture.
type MotionPermission interface {
	Request(ctx context.Context) (bool, error)
}

// TiltSensor delivers tilt samples as the device moves, at no guaranteed rate.
type TiltSensor interface {
	SubscribeTilt(fn func(orientation.TiltSample)) (cancel func())
}

// Sink accepts readings coming from outside the process (MQTT, websocket, TUI).
type Sink interface {
	// EmitTilt delivers a tilt sample to every tilt subscriber.
	EmitTilt(sample orientation.TiltSample)
	// ReportOrientation records a physical rotation to orientationType.
	ReportOrientation(orientationType string)
}
