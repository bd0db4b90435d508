package detector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/orientation-lock/internal/domain/orientation"
)

func countAlerts(d *Detector, logical orientation.Class, samples ...orientation.TiltSample) int {
	alerts := 0

	for _, s := range samples {
		if d.Observe(s, logical).Alert {
			alerts++
		}
	}

	return alerts
}

// TestDetector_MatchingSamplesNeverAlert covers repeated agreement with the locked orientation.
func TestDetector_MatchingSamplesNeverAlert(t *testing.T) {
	t.Parallel()

	d := New(0)
	upright := orientation.TiltSample{Beta: 85, Gamma: 5}

	require.Zero(t, countAlerts(d, orientation.Portrait, upright, upright, upright, upright))
	require.False(t, d.Alerting())
}

// TestDetector_SustainedExcursionAlertsOnce covers N disagreeing samples in a row.
func TestDetector_SustainedExcursionAlertsOnce(t *testing.T) {
	t.Parallel()

	d := New(0)
	sideways := orientation.TiltSample{Beta: 10, Gamma: 80}

	require.Equal(t, 1, countAlerts(d, orientation.Portrait, sideways, sideways, sideways, sideways, sideways))
	require.True(t, d.Alerting())
}

// TestDetector_RearmsAfterAgreement walks the B/C/D sequence: alert, agree, alert again.
func TestDetector_RearmsAfterAgreement(t *testing.T) {
	t.Parallel()

	d := New(orientation.DefaultTiltThreshold)

	r := d.Observe(orientation.TiltSample{Beta: 10, Gamma: 80}, orientation.Portrait)
	require.True(t, r.Alert)
	require.Equal(t, orientation.Landscape, r.Physical)
	require.True(t, d.Alerting())

	r = d.Observe(orientation.TiltSample{Beta: 85, Gamma: 5}, orientation.Portrait)
	require.False(t, r.Alert)
	require.Equal(t, orientation.Portrait, r.Physical)
	require.False(t, d.Alerting())

	r = d.Observe(orientation.TiltSample{Beta: 5, Gamma: 75}, orientation.Portrait)
	require.True(t, r.Alert)
}

// TestDetector_IgnoresAmbiguousSamples checks that flat samples neither alert nor re-arm.
func TestDetector_IgnoresAmbiguousSamples(t *testing.T) {
	t.Parallel()

	d := New(0)
	flat := orientation.TiltSample{Beta: 3, Gamma: 4}
	sideways := orientation.TiltSample{Beta: 10, Gamma: 80}

	require.Equal(t, 1, countAlerts(d, orientation.Portrait, sideways, flat, sideways))

	r := d.Observe(sideways, orientation.Unknown)
	require.False(t, r.Alert)
	require.True(t, d.Alerting(), "an unknown logical class leaves the latch alone")
}

// TestDetector_UnclassifiedScreenNeverAlerts holds the latch while the screen
// reports a type that is neither portrait nor landscape.
func TestDetector_UnclassifiedScreenNeverAlerts(t *testing.T) {
	t.Parallel()

	d := New(0)
	logical := orientation.Classify("natural")
	require.Equal(t, orientation.Unknown, logical)

	sideways := orientation.TiltSample{Beta: 10, Gamma: 80}
	upright := orientation.TiltSample{Beta: 85, Gamma: 5}

	require.Zero(t, countAlerts(d, logical, sideways, upright, sideways))
	require.False(t, d.Alerting())

	r := d.Observe(sideways, logical)
	require.Equal(t, orientation.Landscape, r.Physical)

	require.Equal(t, 1, countAlerts(d, orientation.Portrait, sideways))
}

// TestDetector_Reset re-arms the latch as a new subscription would.
func TestDetector_Reset(t *testing.T) {
	t.Parallel()

	d := New(60)
	require.InDelta(t, 60.0, d.Threshold(), 0)

	sideways := orientation.TiltSample{Beta: 0, Gamma: -85}

	require.Equal(t, 1, countAlerts(d, orientation.Portrait, sideways, sideways))
	d.Reset()
	require.Equal(t, 1, countAlerts(d, orientation.Portrait, sideways))
}
