package orientation

import (
	"fmt"
	"strings"
)

// Class is the coarse orientation bucket.
type Class int

const (
	// Unknown covers unrecognised orientation types and flat or ambiguous tilt.
	Unknown Class = iota
	// Portrait is the tall orientation.
	Portrait
	// Landscape is the wide orientation.
	Landscape
)

// Platform orientation types as reported by screen orientation APIs.
const (
	TypePortraitPrimary    = "portrait-primary"
	TypePortraitSecondary  = "portrait-secondary"
	TypeLandscapePrimary   = "landscape-primary"
	TypeLandscapeSecondary = "landscape-secondary"
)

// String returns the lower-case class name.
func (c Class) String() string {
	switch c {
	case Portrait:
		return "portrait"
	case Landscape:
		return "landscape"
	default:
		return "unknown"
	}
}

// MarshalText encodes the class as its name.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a class name. Anything unrecognised is an error.
func (c *Class) UnmarshalText(text []byte) error {
	switch string(text) {
	case "portrait":
		*c = Portrait
	case "landscape":
		*c = Landscape
	case "unknown", "":
		*c = Unknown
	default:
		return fmt.Errorf("unknown orientation class %q", text)
	}

	return nil
}

// Classify maps an orientation type string onto its class by substring match,
// so "portrait", "portrait-primary" and "PORTRAIT-SECONDARY" are all Portrait.
func Classify(orientationType string) Class {
	t := strings.ToLower(strings.TrimSpace(orientationType))

	switch {
	case strings.Contains(t, "portrait"):
		return Portrait
	case strings.Contains(t, "landscape"):
		return Landscape
	default:
		return Unknown
	}
}

// PrimaryType returns the primary platform type for a class, or "" for Unknown.
func PrimaryType(c Class) string {
	switch c {
	case Portrait:
		return TypePortraitPrimary
	case Landscape:
		return TypeLandscapePrimary
	default:
		return ""
	}
}
