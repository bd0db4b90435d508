package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/orientation-lock/internal/domain/lock"
	"github.com/oshokin/orientation-lock/internal/domain/orientation"
	"github.com/oshokin/orientation-lock/internal/platform/simulated"
)

// TestValidate checks required fields and format validations.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing socket.
	require.ErrorIs(t, Validate(new(Config)), errServerSocketRequired)
	require.ErrorIs(t, Validate(nil), errConfigIsNotSet)

	// Bad socket.
	require.Error(t, Validate(&Config{ServerAddress: "bad:address"}))

	for name, cfg := range map[string]*Config{
		"http address": {ServerAddress: "127.0.0.1:0", HTTPAddress: "nowhere"},
		"log level":    {ServerAddress: "127.0.0.1:0", LogLevel: "chatty"},
		"target":       {ServerAddress: "127.0.0.1:0", Lock: LockConfig{Target: "sideways"}},
		"threshold":    {ServerAddress: "127.0.0.1:0", Lock: LockConfig{TiltThreshold: 95}},
		"permission":   {ServerAddress: "127.0.0.1:0", Device: DeviceConfig{Permission: "maybe"}},
		"broker":       {ServerAddress: "127.0.0.1:0", MQTT: MQTTConfig{Broker: "not a url"}},
		"imu source":   {ServerAddress: "127.0.0.1:0", IMU: IMUConfig{Source: "gyro"}},
	} {
		require.Error(t, Validate(cfg), name)
	}
}

// TestValidate_Defaults checks that Validate fills every optional field.
func TestValidate_Defaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{ServerAddress: "127.0.0.1:50051", IMU: IMUConfig{Source: IMUSourceMPU9250}}
	require.NoError(t, Validate(cfg))

	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, lock.TargetPortrait, cfg.Lock.Target)
	require.InDelta(t, orientation.DefaultTiltThreshold, cfg.Lock.TiltThreshold, 0)
	require.Equal(t, DefaultAlertDuration, cfg.Lock.AlertDuration)
	require.Equal(t, orientation.TypePortraitPrimary, cfg.Device.InitialOrientation)
	require.Equal(t, simulated.PermissionGranted, cfg.Device.Permission)
	require.False(t, cfg.MQTT.Enabled())
	require.Equal(t, DefaultTiltTopic, cfg.MQTT.TiltTopic)
	require.Equal(t, DefaultOrientationTopic, cfg.MQTT.OrientationTopic)
	require.Equal(t, DefaultAlertTopic, cfg.MQTT.AlertTopic)
	require.Equal(t, DefaultSPIDevice, cfg.IMU.SPIDevice)
	require.Equal(t, DefaultCSPin, cfg.IMU.CSPin)
	require.Equal(t, DefaultSampleInterval, cfg.IMU.SampleInterval)

	def := Default()
	require.Equal(t, IMUSourceMock, def.IMU.Source)
	require.NotEmpty(t, def.HTTPAddress)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	settings := &Config{
		ServerAddress: "127.0.0.1:50051",
		LogLevel:      "debug",
		Lock: LockConfig{
			Target:        lock.TargetCurrent,
			TiltThreshold: 45,
			AlertDuration: 1500 * time.Millisecond,
		},
		Device: DeviceConfig{
			InitialOrientation: orientation.TypeLandscapePrimary,
			RequireFullscreen:  true,
			Permission:         simulated.PermissionNotRequired,
		},
		MQTT: MQTTConfig{Broker: "tcp://127.0.0.1:1883"},
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings, loaded)
	require.True(t, loaded.MQTT.Enabled())

	// File exists with restricted permissions.
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(DefaultFilePermissions), info.Mode().Perm())
}

// TestLoad_ParsesDurations reads a hand-written file.
func TestLoad_ParsesDurations(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "orientation-lock.yaml")
	contents := "server_addr: 127.0.0.1:50051\nlock:\n  alert_duration: 5s\nimu:\n  sample_interval: 250ms\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), DefaultFilePermissions))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, cfg.Lock.AlertDuration)
	require.Equal(t, 250*time.Millisecond, cfg.IMU.SampleInterval)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

// TestValidate_SuggestsCloseValues names the option a typo was meant to be.
func TestValidate_SuggestsCloseValues(t *testing.T) {
	t.Parallel()

	cfg := &Config{ServerAddress: "127.0.0.1:0", Lock: LockConfig{Target: "portait"}}
	err := Validate(cfg)
	require.ErrorIs(t, err, lock.ErrUnknownTarget)
	require.Contains(t, err.Error(), `did you mean "portrait"?`)

	cfg = &Config{ServerAddress: "127.0.0.1:0", IMU: IMUConfig{Source: "mpu9205"}}
	require.Contains(t, Validate(cfg).Error(), `did you mean "mpu9250"?`)

	require.Empty(t, suggest("sideways", "portrait", "current"))
	require.Empty(t, suggest("", "portrait"))
	require.Equal(t, ` (did you mean "denied"?)`, suggest("Denyed", "granted", "denied", "not-required"))
}
