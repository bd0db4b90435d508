// Package lock holds the view-state record of the orientation lock demo and
// the errors its operations can fail with.
//
// View is immutable: every event (lock requested, tilt alert, timer elapsed,
// ...) is a method returning the next View, so the controller never mutates
// individual flags that could drift apart.
package lock
