package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/orientation-lock/internal/domain/lock"
	"github.com/oshokin/orientation-lock/internal/domain/orientation"
	"github.com/oshokin/orientation-lock/internal/logger"
	"github.com/oshokin/orientation-lock/internal/platform"
	"github.com/oshokin/orientation-lock/internal/service/detector"
)

// Devices bundles the platform capabilities a Controller drives.
// Implementations must not invoke callbacks synchronously from a Subscribe call.
type Devices struct {
	Screen     platform.OrientationScreen
	Fullscreen platform.Fullscreen
	Permission platform.MotionPermission
	Tilt       platform.TiltSensor
}

// Alert describes one "rotation attempted while locked" episode.
type Alert struct {
	ID       uuid.UUID              `json:"id"`
	At       time.Time              `json:"at"`
	Sample   orientation.TiltSample `json:"sample"`
	Physical orientation.Class      `json:"physical"`
	Logical  orientation.Class      `json:"logical"`
}

var (
	// ErrMissingCapability is returned by New when a capability is nil.
	ErrMissingCapability = errors.New("missing platform capability")
	// ErrAlreadyStarted is returned by a second Start call.
	ErrAlreadyStarted = errors.New("controller already started")
)

// Controller is the lock orchestrator. It is safe for concurrent use.
type Controller struct {
	devices       Devices
	target        lock.Target
	alertDuration time.Duration
	threshold     float64
	alertHandlers []AlertHandler
	hub           *hub

	mu sync.Mutex
	// ctx carries the logger for callbacks that have no caller context.
	ctx          context.Context //nolint:containedctx // Callbacks from the platform arrive without a context.
	view         lock.View
	detector     *detector.Detector
	started      bool
	changeCancel func()
	tiltCancel   func()
	// tiltGen invalidates samples delivered to a subscription that has since been cancelled.
	tiltGen    uint64
	alertTimer *time.Timer
	// timerGen invalidates a timer that fired while being replaced or cancelled.
	timerGen uint64
}

// New creates a Controller over the given capabilities.
func New(devices Devices, opts ...Option) (*Controller, error) {
	switch {
	case devices.Screen == nil:
		return nil, fmt.Errorf("%w: orientation screen", ErrMissingCapability)
	case devices.Fullscreen == nil:
		return nil, fmt.Errorf("%w: fullscreen", ErrMissingCapability)
	case devices.Permission == nil:
		return nil, fmt.Errorf("%w: motion permission", ErrMissingCapability)
	case devices.Tilt == nil:
		return nil, fmt.Errorf("%w: tilt sensor", ErrMissingCapability)
	}

	c := &Controller{
		devices:       devices,
		target:        lock.TargetPortrait,
		alertDuration: DefaultAlertDuration,
		threshold:     orientation.DefaultTiltThreshold,
		hub:           newHub(),
		ctx:           context.Background(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.detector = detector.New(c.threshold)

	return c, nil
}

// Start records the current orientation and subscribes to orientation
// changes. The subscription is independent of the lock state and lasts
// until Close.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return ErrAlreadyStarted
	}

	c.started = true
	c.ctx = ctx
	c.setViewLocked(c.view.OrientationChanged(c.devices.Screen.Type()))
	c.changeCancel = c.devices.Screen.SubscribeChanges(c.orientationChanged)

	logger.InfoKV(ctx, "Orientation observer started",
		"orientation", c.view.Orientation, "target", string(c.target), "threshold", c.threshold)

	return nil
}

// Close drops every subscription, cancels a pending alert timer and closes
// all view subscribers. It leaves the platform lock as it is.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.changeCancel != nil {
		c.changeCancel()
		c.changeCancel = nil
	}

	c.unsubscribeTiltLocked()
	c.cancelTimerLocked()
	c.hub.close()
}

// View returns the current view snapshot.
func (c *Controller) View() lock.View {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.view
}

// Subscribe returns a channel that immediately yields the current view and
// then every change. Call cancel to stop; the channel is closed afterwards.
func (c *Controller) Subscribe() (<-chan lock.View, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hub.subscribe(c.view)
}

// Lock pins the screen orientation and starts watching tilt. The context
// must be marked with platform.WithUserGesture for the permission prompt to
// be shown. Locking an already locked screen is a no-op.
func (c *Controller) Lock(ctx context.Context) (lock.View, error) {
	c.mu.Lock()

	switch {
	case c.view.Busy():
		v := c.view
		c.mu.Unlock()

		return v, lock.ErrBusy
	case c.view.State == lock.Locked:
		v := c.view
		c.mu.Unlock()

		return v, nil
	}

	c.setViewLocked(c.view.LockRequested())
	granted := c.view.PermissionGranted
	c.mu.Unlock()

	if !granted {
		if err := c.requestPermission(ctx); err != nil {
			return c.lockFailed(ctx, err)
		}
	}

	// Fullscreen is advisory: some platforms only lock orientation in
	// fullscreen, others refuse fullscreen outright.
	entered := false
	if err := c.devices.Fullscreen.Enter(ctx); err != nil {
		logger.WarnKV(ctx, "Fullscreen request failed, locking anyway", "error", err)
	} else {
		entered = true
	}

	target := c.lockTarget()

	if err := c.devices.Screen.Lock(ctx, target); err != nil {
		kind := lock.ErrOrientationLockRejected
		if errors.Is(err, platform.ErrLockNotSupported) {
			kind = lock.ErrOrientationLockUnsupported
		}

		if entered {
			c.exitFullscreen(ctx)
		}

		return c.lockFailed(ctx, fmt.Errorf("%w: %w", kind, err))
	}

	c.mu.Lock()
	c.setViewLocked(c.view.LockSucceeded(orientation.Classify(target)))
	c.subscribeTiltLocked()
	v := c.view
	c.mu.Unlock()

	logger.InfoKV(ctx, "Orientation locked", "target", target, "reference", v.Reference.String())

	return v, nil
}

// Unlock releases the orientation lock and stops watching tilt. Unlocking
// an unlocked screen is a no-op. When the platform refuses to unlock, the
// controller stays locked and keeps watching tilt.
func (c *Controller) Unlock(ctx context.Context) (lock.View, error) {
	c.mu.Lock()

	switch {
	case c.view.Busy():
		v := c.view
		c.mu.Unlock()

		return v, lock.ErrBusy
	case c.view.State == lock.Unlocked:
		v := c.view
		c.mu.Unlock()

		return v, nil
	}

	c.setViewLocked(c.view.UnlockRequested())
	c.mu.Unlock()

	if err := c.devices.Screen.Unlock(ctx); err != nil {
		err = fmt.Errorf("%w: %w", lock.ErrUnlockFailed, err)

		c.mu.Lock()
		c.setViewLocked(c.view.UnlockFailed(err))
		v := c.view
		c.mu.Unlock()

		logger.ErrorKV(ctx, "Orientation unlock failed", "error", err)

		return v, err
	}

	if c.devices.Fullscreen.Active() {
		c.exitFullscreen(ctx)
	}

	c.mu.Lock()
	c.unsubscribeTiltLocked()
	c.cancelTimerLocked()
	c.setViewLocked(c.view.UnlockSucceeded())
	v := c.view
	c.mu.Unlock()

	logger.Info(ctx, "Orientation unlocked")

	return v, nil
}

// DismissAlert hides the alert popup. The alert itself stays active until
// its timer clears it.
func (c *Controller) DismissAlert(ctx context.Context) lock.View {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view.PopupVisible {
		logger.Debugf(ctx, "Alert popup dismissed")
	}

	c.setViewLocked(c.view.PopupDismissed())

	return c.view
}

func (c *Controller) requestPermission(ctx context.Context) error {
	if !platform.IsUserGesture(ctx) {
		return fmt.Errorf("%w: request must come from a user action", lock.ErrPermissionDenied)
	}

	granted, err := c.devices.Permission.Request(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", lock.ErrPermissionDenied, err)
	}

	if !granted {
		return lock.ErrPermissionDenied
	}

	c.mu.Lock()
	c.setViewLocked(c.view.PermissionGrantedEvent())
	c.mu.Unlock()

	logger.Info(ctx, "Motion sensor permission granted")

	return nil
}

func (c *Controller) lockFailed(ctx context.Context, err error) (lock.View, error) {
	c.mu.Lock()
	c.setViewLocked(c.view.LockFailed(err))
	v := c.view
	c.mu.Unlock()

	logger.ErrorKV(ctx, "Orientation lock failed", "error", err)

	return v, err
}

// lockTarget resolves the target policy to a platform lock target.
func (c *Controller) lockTarget() string {
	if c.target != lock.TargetCurrent {
		return string(lock.TargetPortrait)
	}

	current := c.devices.Screen.Type()
	if orientation.Classify(current) == orientation.Unknown {
		return string(lock.TargetPortrait)
	}

	return current
}

func (c *Controller) exitFullscreen(ctx context.Context) {
	if err := c.devices.Fullscreen.Exit(ctx); err != nil {
		logger.WarnKV(ctx, "Fullscreen exit failed", "error", err)
	}
}

func (c *Controller) orientationChanged() {
	current := c.devices.Screen.Type()

	c.mu.Lock()
	defer c.mu.Unlock()

	logger.DebugKV(c.ctx, "Orientation changed", "from", c.view.Orientation, "to", current)
	c.setViewLocked(c.view.OrientationChanged(current))
}

func (c *Controller) subscribeTiltLocked() {
	c.unsubscribeTiltLocked()
	c.detector.Reset()

	gen := c.tiltGen
	c.tiltCancel = c.devices.Tilt.SubscribeTilt(func(sample orientation.TiltSample) {
		c.tiltReceived(gen, sample)
	})
}

func (c *Controller) unsubscribeTiltLocked() {
	c.tiltGen++

	if c.tiltCancel != nil {
		c.tiltCancel()
		c.tiltCancel = nil
	}

	c.detector.Reset()
}

func (c *Controller) tiltReceived(gen uint64, sample orientation.TiltSample) {
	c.mu.Lock()

	if gen != c.tiltGen || c.view.State != lock.Locked || !c.view.PermissionGranted {
		c.mu.Unlock()

		return
	}

	logical := c.view.OrientationClass()

	result := c.detector.Observe(sample, logical)
	if !result.Alert {
		c.mu.Unlock()

		return
	}

	c.setViewLocked(c.view.AlertRaised())
	c.restartTimerLocked()

	ctx := c.ctx
	alert := Alert{
		ID:       uuid.New(),
		At:       time.Now(),
		Sample:   sample,
		Physical: result.Physical,
		Logical:  logical,
	}
	c.mu.Unlock()

	logger.WarnKV(ctx, "Rotation attempted while locked",
		"alert_id", alert.ID.String(), "physical", alert.Physical.String(), "logical", alert.Logical.String(),
		"beta", sample.Beta, "gamma", sample.Gamma)

	for _, h := range c.alertHandlers {
		h(ctx, alert)
	}
}

func (c *Controller) restartTimerLocked() {
	c.cancelTimerLocked()

	gen := c.timerGen
	c.alertTimer = time.AfterFunc(c.alertDuration, func() {
		c.alertExpired(gen)
	})
}

func (c *Controller) cancelTimerLocked() {
	c.timerGen++

	if c.alertTimer != nil {
		c.alertTimer.Stop()
		c.alertTimer = nil
	}
}

func (c *Controller) alertExpired(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.timerGen {
		return
	}

	c.alertTimer = nil
	c.setViewLocked(c.view.AlertCleared())
}

func (c *Controller) setViewLocked(v lock.View) {
	if v == c.view {
		return
	}

	c.view = v
	c.hub.publish(v)
}
