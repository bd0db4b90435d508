package detector

import "github.com/oshokin/orientation-lock/internal/domain/orientation"

// Result is the outcome of one observed sample.
type Result struct {
	// Physical is the class inferred from the sample, Unknown if ignored.
	Physical orientation.Class
	// Alert is true when this sample starts a new excursion.
	Alert bool
}

// Detector is the latch-based mismatch detector. It is not safe for
// concurrent use; the controller serializes calls.
type Detector struct {
	threshold float64
	alerting  bool
}

// New returns an armed detector. A non-positive threshold selects
// orientation.DefaultTiltThreshold.
func New(threshold float64) *Detector {
	if threshold <= 0 {
		threshold = orientation.DefaultTiltThreshold
	}

	return &Detector{threshold: threshold}
}

// Observe classifies sample and compares it with the logical class.
// Flat samples, and samples taken while the logical class is unknown,
// leave the latch untouched.
func (d *Detector) Observe(sample orientation.TiltSample, logical orientation.Class) Result {
	physical := orientation.ClassifyTilt(sample, d.threshold)
	if physical == orientation.Unknown || logical == orientation.Unknown {
		return Result{Physical: physical}
	}

	if physical == logical {
		d.alerting = false

		return Result{Physical: physical}
	}

	if d.alerting {
		return Result{Physical: physical}
	}

	d.alerting = true

	return Result{Physical: physical, Alert: true}
}

// Alerting reports whether the latch is set.
func (d *Detector) Alerting() bool {
	return d.alerting
}

// Reset re-arms the detector for a new subscription.
func (d *Detector) Reset() {
	d.alerting = false
}

// Threshold returns the tilt threshold in degrees.
func (d *Detector) Threshold() float64 {
	return d.threshold
}
