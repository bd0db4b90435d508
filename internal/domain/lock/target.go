package lock

import (
	"errors"
	"fmt"
	"strings"
)

// Target selects which orientation a lock request pins the screen to.
type Target string

const (
	// TargetPortrait always locks to portrait.
	TargetPortrait Target = "portrait"
	// TargetCurrent locks to whatever orientation the device reports at lock time.
	TargetCurrent Target = "current"
)

// ErrUnknownTarget is returned by ParseTarget for unrecognised values.
var ErrUnknownTarget = errors.New("unknown lock target")

// ParseTarget reads a Target; an empty string selects TargetPortrait.
func ParseTarget(s string) (Target, error) {
	switch t := Target(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TargetPortrait, nil
	case TargetPortrait, TargetCurrent:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTarget, s)
	}
}
