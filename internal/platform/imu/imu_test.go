package imu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/orientation-lock/internal/domain/orientation"
)

// TestAccelToTilt checks the gravity vector for the main device poses.
func TestAccelToTilt(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		ax, ay, az float64
		want       orientation.Class
	}{
		"upright":  {ax: 0, ay: 16384, az: 0, want: orientation.Portrait},
		"sideways": {ax: -16384, ay: 0, az: 100, want: orientation.Landscape},
		"flat":     {ax: 0, ay: 0, az: 16384, want: orientation.Unknown},
	} {
		sample := AccelToTilt(tc.ax, tc.ay, tc.az)
		require.Equal(t, tc.want, orientation.ClassifyTilt(sample, orientation.DefaultTiltThreshold), name)
	}

	s := AccelToTilt(0, 1, 0)
	require.InDelta(t, 90.0, s.Beta, 1e-9)
	require.InDelta(t, 0.0, s.Gamma, 1e-9)
}

// TestMockSource sweeps from portrait to landscape.
func TestMockSource(t *testing.T) {
	t.Parallel()

	now := time.Unix(0, 0)
	src := NewMockSource(func() time.Time { return now })

	s, err := src.Next()
	require.NoError(t, err)
	require.InDelta(t, 90.0, s.Beta, 1e-9)
	require.InDelta(t, 0.0, s.Gamma, 1e-9)

	// A quarter turn at 0.4 rad/s takes pi/0.8 seconds.
	now = now.Add(3927 * time.Millisecond)

	s, err = src.Next()
	require.NoError(t, err)
	require.Equal(t, orientation.Landscape, orientation.ClassifyTilt(s, orientation.DefaultTiltThreshold))
}

// TestNewMPU9250Source_UnknownPin fails before touching the SPI bus.
func TestNewMPU9250Source_UnknownPin(t *testing.T) {
	t.Parallel()

	var open func(spiDevice, csPin string) (Source, error) = NewMPU9250Source

	source, err := open("/dev/spidev-missing", "NO_SUCH_PIN")
	require.Error(t, err)
	require.Nil(t, source)
}
