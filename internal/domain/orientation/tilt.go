package orientation

import "math"

// DefaultTiltThreshold is the angle, in degrees, a device must be tilted past
// before its physical orientation is considered known.
const DefaultTiltThreshold = 50.0

// TiltSample is one device-orientation reading in degrees.
// Beta is the front-back tilt in [-180, 180], Gamma the left-right tilt in [-90, 90].
type TiltSample struct {
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// ClassifyTilt infers the physical orientation from a sample:
//   - Portrait when threshold < |beta| < 180-threshold,
//   - otherwise Landscape when |gamma| > threshold,
//   - otherwise Unknown (flat or ambiguous).
func ClassifyTilt(s TiltSample, threshold float64) Class {
	beta := math.Abs(s.Beta)

	switch {
	case beta > threshold && beta < 180-threshold:
		return Portrait
	case math.Abs(s.Gamma) > threshold:
		return Landscape
	default:
		return Unknown
	}
}
