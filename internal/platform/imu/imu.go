package imu

import (
	"math"
	"time"

	"github.com/oshokin/orientation-lock/internal/domain/orientation"
)

// Source yields one tilt sample per call.
type Source interface {
	Next() (orientation.TiltSample, error)
}

// AccelToTilt converts a gravity vector into device-orientation angles in
// degrees. Only the ratios between axes matter, so raw counts work.
//
//	beta  = atan2(ay, az)
//	gamma = atan2(-ax, sqrt(ay^2 + az^2))
func AccelToTilt(ax, ay, az float64) orientation.TiltSample {
	beta := math.Atan2(ay, az)
	gamma := math.Atan2(-ax, math.Sqrt(ay*ay+az*az))

	return orientation.TiltSample{
		Beta:  beta * 180 / math.Pi,
		Gamma: gamma * 180 / math.Pi,
	}
}

// sweepRate is the angular speed of the mock sweep in radians per second.
const sweepRate = 0.4

type mockSource struct {
	start time.Time
	now   func() time.Time
}

// NewMockSource returns a source that slowly rotates the device between
// portrait and landscape. A nil now uses time.Now.
func NewMockSource(now func() time.Time) Source {
	if now == nil {
		now = time.Now
	}

	return &mockSource{start: now(), now: now}
}

func (m *mockSource) Next() (orientation.TiltSample, error) {
	elapsed := m.now().Sub(m.start).Seconds()

	return orientation.TiltSample{
		Beta:  90 * math.Cos(elapsed*sweepRate),
		Gamma: 90 * math.Sin(elapsed*sweepRate),
	}, nil
}
