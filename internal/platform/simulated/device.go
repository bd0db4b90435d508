package simulated

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/oshokin/orientation-lock/internal/domain/orientation"
	"github.com/oshokin/orientation-lock/internal/platform"
)

// PermissionPolicy is how the simulated user answers the motion-sensor prompt.
type PermissionPolicy string

const (
	// PermissionGranted accepts the prompt.
	PermissionGranted PermissionPolicy = "granted"
	// PermissionDenied refuses the prompt.
	PermissionDenied PermissionPolicy = "denied"
	// PermissionNotRequired models platforms without a prompt: always granted.
	PermissionNotRequired PermissionPolicy = "not-required"
)

var (
	// ErrFullscreenNotSupported is returned by Enter when fullscreen is disabled.
	ErrFullscreenNotSupported = errors.New("fullscreen not supported")
	// ErrFullscreenRequired is returned by Lock when RequireFullscreen is set and fullscreen is off.
	ErrFullscreenRequired = errors.New("orientation lock requires fullscreen")
	// errUnknownTarget is returned by Lock for targets that are neither portrait nor landscape.
	errUnknownTarget = errors.New("unknown orientation lock target")
)

// Options configures a Device.
type Options struct {
	// InitialType is the reported orientation at start, portrait-primary if empty.
	InitialType string
	// LockUnsupported makes Lock fail with platform.ErrLockNotSupported.
	LockUnsupported bool
	// FullscreenUnsupported makes Enter fail.
	FullscreenUnsupported bool
	// RequireFullscreen makes Lock fail unless fullscreen is active.
	RequireFullscreen bool
	// Permission is the prompt answer, PermissionGranted if empty.
	Permission PermissionPolicy
}

// Stats counts capability calls, for tests and diagnostics.
type Stats struct {
	PermissionRequests int
	FullscreenEnters   int
	FullscreenExits    int
	Locks              int
	Unlocks            int
}

// Device is an in-memory phone.
type Device struct {
	mu sync.Mutex

	opts Options

	// current is the reported orientation type.
	current string
	// physical is where the device actually points; equals current unless pinned.
	physical string
	// pinned is the orientation type the screen is locked to, "" when unlocked.
	pinned     string
	fullscreen bool
	unlockErr  error
	stats      Stats

	nextID     int
	changeSubs map[int]func()
	tiltSubs   map[int]func(orientation.TiltSample)
}

var (
	_ platform.OrientationScreen = (*Device)(nil)
	_ platform.Fullscreen        = (*Device)(nil)
	_ platform.MotionPermission  = (*Device)(nil)
	_ platform.TiltSensor        = (*Device)(nil)
	_ platform.Sink              = (*Device)(nil)
)

// New creates a device in the given state.
func New(opts Options) *Device {
	if opts.InitialType == "" {
		opts.InitialType = orientation.TypePortraitPrimary
	}

	if opts.Permission == "" {
		opts.Permission = PermissionGranted
	}

	return &Device{
		opts:       opts,
		current:    opts.InitialType,
		physical:   opts.InitialType,
		changeSubs: make(map[int]func()),
		tiltSubs:   make(map[int]func(orientation.TiltSample)),
	}
}

// Type returns the reported orientation type.
func (d *Device) Type() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.current
}

// Lock pins the screen. A bare class target ("portrait") keeps the current
// type when it already matches, otherwise switches to the primary type.
func (d *Device) Lock(ctx context.Context, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	d.stats.Locks++

	if d.opts.LockUnsupported {
		d.mu.Unlock()
		return platform.ErrLockNotSupported
	}

	if d.opts.RequireFullscreen && !d.fullscreen {
		d.mu.Unlock()
		return ErrFullscreenRequired
	}

	pinned, err := resolveTarget(target, d.current)
	if err != nil {
		d.mu.Unlock()
		return err
	}

	d.pinned = pinned
	changed := d.setCurrentLocked(pinned)
	subs := d.changeSubscribersLocked()
	d.mu.Unlock()

	if changed {
		notify(subs)
	}

	return nil
}

// Unlock releases the pin and snaps to the physical orientation.
func (d *Device) Unlock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	d.stats.Unlocks++

	if d.unlockErr != nil {
		err := d.unlockErr
		d.mu.Unlock()

		return err
	}

	d.pinned = ""
	changed := d.setCurrentLocked(d.physical)
	subs := d.changeSubscribersLocked()
	d.mu.Unlock()

	if changed {
		notify(subs)
	}

	return nil
}

// SubscribeChanges registers fn for orientation change notifications.
func (d *Device) SubscribeChanges(fn func()) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	d.changeSubs[id] = fn

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		delete(d.changeSubs, id)
	}
}

// Enter switches fullscreen on.
func (d *Device) Enter(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.stats.FullscreenEnters++

	if d.opts.FullscreenUnsupported {
		return ErrFullscreenNotSupported
	}

	d.fullscreen = true

	return nil
}

// Exit switches fullscreen off.
func (d *Device) Exit(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stats.FullscreenExits++
	d.fullscreen = false

	return nil
}

// Active reports whether fullscreen is on.
func (d *Device) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.fullscreen
}

// Request answers the permission prompt according to the configured policy.
// Like a browser, it refuses to prompt outside a user gesture.
func (d *Device) Request(ctx context.Context) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stats.PermissionRequests++

	switch d.opts.Permission {
	case PermissionNotRequired:
		return true, nil
	case PermissionDenied:
		return false, nil
	default:
		return platform.IsUserGesture(ctx), nil
	}
}

// SubscribeTilt registers fn for tilt samples.
func (d *Device) SubscribeTilt(fn func(orientation.TiltSample)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	d.tiltSubs[id] = fn

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		delete(d.tiltSubs, id)
	}
}

// EmitTilt delivers sample to every tilt subscriber on the caller's goroutine.
func (d *Device) EmitTilt(sample orientation.TiltSample) {
	d.mu.Lock()
	subs := make([]func(orientation.TiltSample), 0, len(d.tiltSubs))

	for _, fn := range d.tiltSubs {
		subs = append(subs, fn)
	}
	d.mu.Unlock()

	for _, fn := range subs {
		fn(sample)
	}
}

// ReportOrientation records a physical rotation. While pinned, the reported
// orientation does not change.
func (d *Device) ReportOrientation(orientationType string) {
	d.mu.Lock()
	d.physical = orientationType

	var changed bool
	if d.pinned == "" {
		changed = d.setCurrentLocked(orientationType)
	}

	subs := d.changeSubscribersLocked()
	d.mu.Unlock()

	if changed {
		notify(subs)
	}
}

// SetUnlockError makes the following Unlock calls fail with err; nil restores them.
func (d *Device) SetUnlockError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.unlockErr = err
}

// Pinned returns the type the screen is locked to, or "".
func (d *Device) Pinned() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.pinned
}

// Stats returns a copy of the call counters.
func (d *Device) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.stats
}

// TiltSubscribers returns the number of active tilt subscriptions.
func (d *Device) TiltSubscribers() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.tiltSubs)
}

func (d *Device) setCurrentLocked(orientationType string) bool {
	if d.current == orientationType {
		return false
	}

	d.current = orientationType

	return true
}

func (d *Device) changeSubscribersLocked() []func() {
	subs := make([]func(), 0, len(d.changeSubs))
	for _, fn := range d.changeSubs {
		subs = append(subs, fn)
	}

	return subs
}

func notify(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}

func resolveTarget(target, current string) (string, error) {
	class := orientation.Classify(target)
	if class == orientation.Unknown {
		return "", fmt.Errorf("%w: %q", errUnknownTarget, target)
	}

	switch {
	case target != class.String():
		return target, nil
	case orientation.Classify(current) == class:
		return current, nil
	default:
		return orientation.PrimaryType(class), nil
	}
}
