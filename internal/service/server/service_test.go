package server

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/orientation-lock/internal/config"
	"github.com/oshokin/orientation-lock/internal/domain/lock"
	"github.com/oshokin/orientation-lock/internal/domain/orientation"
	"github.com/oshokin/orientation-lock/internal/platform"
	"github.com/oshokin/orientation-lock/internal/platform/simulated"
	"github.com/oshokin/orientation-lock/internal/service/controller"
)

var errTestPublish = errors.New("broker down")

// recordingPublisher hands every published document to a channel.
type recordingPublisher struct {
	topics chan string
	docs   chan []byte
	err    error
}

func (p *recordingPublisher) Publish(topic string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	p.topics <- topic
	p.docs <- data

	return p.err
}

func testSettings(t *testing.T) *config.Config {
	t.Helper()

	settings := &config.Config{
		ServerAddress: "127.0.0.1:50051",
		Device: config.DeviceConfig{
			InitialOrientation: orientation.TypeLandscapePrimary,
			RequireFullscreen:  true,
		},
		Lock: config.LockConfig{Target: lock.TargetCurrent},
	}
	require.NoError(t, config.Validate(settings))

	return settings
}

// TestResolveListenAddress covers override, port extraction and errors.
func TestResolveListenAddress(t *testing.T) {
	t.Parallel()

	addr, err := resolveListenAddress("lock.local:50051", "")
	require.NoError(t, err)
	require.Equal(t, ":50051", addr)

	addr, err = resolveListenAddress("lock.local:50051", "127.0.0.1:9000")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", addr)

	_, err = resolveListenAddress("", "")
	require.ErrorIs(t, err, ErrNoServerAddress)

	_, err = resolveListenAddress("no-port", "")
	require.Error(t, err)
}

// TestApplyOverrides replaces only the flags that were set.
func TestApplyOverrides(t *testing.T) {
	t.Parallel()

	settings := testSettings(t)
	applyOverrides(settings, &Options{Broker: "tcp://broker:1883"})

	require.Empty(t, settings.HTTPAddress)
	require.Equal(t, "tcp://broker:1883", settings.MQTT.Broker)
}

// TestNewController_FollowsSettings wires the device and lock policy from config.
func TestNewController_FollowsSettings(t *testing.T) {
	t.Parallel()

	settings := testSettings(t)
	dev := NewDevice(settings)

	ctrl, err := NewController(t.Context(), settings, dev, nil)
	require.NoError(t, err)

	defer ctrl.Close()

	require.Equal(t, orientation.TypeLandscapePrimary, ctrl.View().Orientation)

	v, err := ctrl.Lock(platform.WithUserGesture(t.Context()))
	require.NoError(t, err)
	require.Equal(t, orientation.Landscape, v.Reference)
	require.Equal(t, orientation.TypeLandscapePrimary, dev.Pinned())
	require.Equal(t, 1, dev.Stats().FullscreenEnters)
}

// TestNewController_PublishesAlerts sends each alert to the alert topic.
func TestNewController_PublishesAlerts(t *testing.T) {
	t.Parallel()

	settings := testSettings(t)
	settings.Lock.Target = lock.TargetPortrait
	dev := NewDevice(settings)
	pub := &recordingPublisher{topics: make(chan string, 1), docs: make(chan []byte, 1), err: errTestPublish}

	ctrl, err := NewController(t.Context(), settings, dev, pub)
	require.NoError(t, err)

	defer ctrl.Close()

	_, err = ctrl.Lock(platform.WithUserGesture(t.Context()))
	require.NoError(t, err)

	dev.EmitTilt(orientation.TiltSample{Beta: 5, Gamma: 85})

	select {
	case topic := <-pub.topics:
		require.Equal(t, settings.MQTT.AlertTopic, topic)
	case <-time.After(5 * time.Second):
		t.Fatal("alert was not published")
	}

	var alert controller.Alert
	require.NoError(t, json.Unmarshal(<-pub.docs, &alert))
	require.Equal(t, orientation.Landscape, alert.Physical)
	require.Equal(t, orientation.Portrait, alert.Logical)
}

// TestNewDevice maps every device option.
func TestNewDevice(t *testing.T) {
	t.Parallel()

	settings := testSettings(t)
	settings.Device.Permission = simulated.PermissionDenied

	dev := NewDevice(settings)
	require.Equal(t, orientation.TypeLandscapePrimary, dev.Type())

	ok, err := dev.Request(platform.WithUserGesture(t.Context()))
	require.NoError(t, err)
	require.False(t, ok)

	require.ErrorIs(t, dev.Lock(t.Context(), "portrait"), simulated.ErrFullscreenRequired)
}
