package lock

import (
	"fmt"

	"github.com/oshokin/orientation-lock/internal/domain/orientation"
)

// State is whether the screen orientation is pinned.
type State int

const (
	// Unlocked means the screen follows the device.
	Unlocked State = iota
	// Locked means the screen is pinned and tilt is watched.
	Locked
)

// String returns "unlocked" or "locked".
func (s State) String() string {
	if s == Locked {
		return "locked"
	}

	return "unlocked"
}

// MarshalText encodes the state as its name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "locked":
		*s = Locked
	case "unlocked", "":
		*s = Unlocked
	default:
		return fmt.Errorf("unknown lock state %q", text)
	}

	return nil
}

// Operation is the lock operation currently in flight.
type Operation int

const (
	// OpNone means no operation is pending.
	OpNone Operation = iota
	// OpLocking means a lock request is being processed.
	OpLocking
	// OpUnlocking means an unlock request is being processed.
	OpUnlocking
)

// String returns the operation name.
func (o Operation) String() string {
	switch o {
	case OpLocking:
		return "locking"
	case OpUnlocking:
		return "unlocking"
	default:
		return "none"
	}
}

// MarshalText encodes the operation as its name.
func (o Operation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an operation name.
func (o *Operation) UnmarshalText(text []byte) error {
	switch string(text) {
	case "locking":
		*o = OpLocking
	case "unlocking":
		*o = OpUnlocking
	case "none", "":
		*o = OpNone
	default:
		return fmt.Errorf("unknown lock operation %q", text)
	}

	return nil
}

// View is everything a UI needs to render the demo.
type View struct {
	// State is the lock state.
	State State `json:"state"`
	// Pending is the operation in flight, if any.
	Pending Operation `json:"pending"`
	// Orientation is the last orientation type reported by the platform.
	Orientation string `json:"orientation"`
	// Reference is the class recorded when the lock succeeded.
	Reference orientation.Class `json:"reference"`
	// PermissionGranted is set once the tilt sensor permission is granted.
	PermissionGranted bool `json:"permission_granted"`
	// Alerting is true while a rotation alert is shown.
	Alerting bool `json:"alerting"`
	// PopupVisible is true while the alert popup is on screen.
	PopupVisible bool `json:"popup_visible"`
	// Error is the message of the last failed operation.
	Error string `json:"error,omitempty"`
	// Alerts counts the alerts raised since start.
	Alerts int `json:"alerts"`
}

// OrientationClass is the class of the reported orientation.
func (v View) OrientationClass() orientation.Class {
	return orientation.Classify(v.Orientation)
}

// Busy reports whether a lock or unlock is in flight.
func (v View) Busy() bool {
	return v.Pending != OpNone
}

// LockRequested marks a lock as pending and clears the previous error.
func (v View) LockRequested() View {
	v.Pending = OpLocking
	v.Error = ""

	return v
}

// PermissionGrantedEvent records the tilt sensor permission grant.
func (v View) PermissionGrantedEvent() View {
	v.PermissionGranted = true

	return v
}

// LockSucceeded pins the state to Locked with the given reference class.
func (v View) LockSucceeded(reference orientation.Class) View {
	v.State = Locked
	v.Reference = reference
	v.Pending = OpNone
	v.Error = ""

	return v
}

// LockFailed ends the pending lock, keeping the state, and surfaces err.
func (v View) LockFailed(err error) View {
	v.Pending = OpNone
	v.Error = errorMessage(err)

	return v
}

// UnlockRequested marks an unlock as pending and clears the previous error.
func (v View) UnlockRequested() View {
	v.Pending = OpUnlocking
	v.Error = ""

	return v
}

// UnlockSucceeded returns to Unlocked and drops any alert on screen.
func (v View) UnlockSucceeded() View {
	v.State = Unlocked
	v.Reference = orientation.Unknown
	v.Pending = OpNone
	v.Alerting = false
	v.PopupVisible = false
	v.Error = ""

	return v
}

// UnlockFailed ends the pending unlock, keeping the state, and surfaces err.
func (v View) UnlockFailed(err error) View {
	v.Pending = OpNone
	v.Error = errorMessage(err)

	return v
}

// OrientationChanged stores the reported orientation type as-is.
func (v View) OrientationChanged(orientationType string) View {
	v.Orientation = orientationType

	return v
}

// AlertRaised shows the rotation alert. It is a no-op unless Locked.
func (v View) AlertRaised() View {
	if v.State != Locked {
		return v
	}

	v.Alerting = true
	v.PopupVisible = true
	v.Alerts++

	return v
}

// AlertCleared hides the alert once its timer elapsed.
func (v View) AlertCleared() View {
	v.Alerting = false
	v.PopupVisible = false

	return v
}

// PopupDismissed hides the popup; Alerting stays until the timer clears it.
func (v View) PopupDismissed() View {
	v.PopupVisible = false

	return v
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
