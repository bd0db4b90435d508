package lock

import "errors"

var (
	// ErrPermissionDenied is returned when the tilt sensor permission is refused,
	// including when it is requested outside a user gesture.
	ErrPermissionDenied = errors.New("motion sensor permission denied")
	// ErrOrientationLockUnsupported is returned when the platform cannot lock orientation at all.
	ErrOrientationLockUnsupported = errors.New("orientation lock is not supported on this device")
	// ErrOrientationLockRejected is returned when the platform refuses a lock request.
	ErrOrientationLockRejected = errors.New("orientation lock request was rejected")
	// ErrUnlockFailed is returned when releasing the orientation lock fails.
	ErrUnlockFailed = errors.New("could not release the orientation lock")
	// ErrBusy is returned when a lock or unlock is requested while another one is pending.
	ErrBusy = errors.New("another lock operation is in progress")
)
