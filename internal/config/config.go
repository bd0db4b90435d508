package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/orientation-lock/internal/domain/lock"
	"github.com/oshokin/orientation-lock/internal/domain/orientation"
	"github.com/oshokin/orientation-lock/internal/logger"
	"github.com/oshokin/orientation-lock/internal/platform/simulated"
)

// Config holds the settings shared by the orientation-lock binaries.
type Config struct {
	// ServerAddress is the gRPC address of the lock server.
	ServerAddress string `yaml:"server_addr"`
	// HTTPAddress is the listen address of the HTTP API; empty disables it.
	HTTPAddress string `yaml:"http_addr,omitempty"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the zap level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`
	// Lock configures the orchestrator and the mismatch detector.
	Lock LockConfig `yaml:"lock"`
	// Device configures the simulated device behind the server.
	Device DeviceConfig `yaml:"device"`
	// MQTT configures the sensor bus.
	MQTT MQTTConfig `yaml:"mqtt"`
	// IMU configures the tilt producer.
	IMU IMUConfig `yaml:"imu"`
}

// LockConfig configures the orchestrator.
type LockConfig struct {
	// Target is "portrait" or "current".
	Target lock.Target `yaml:"target"`
	// TiltThreshold is the tilt angle in degrees past which an orientation is recognised.
	TiltThreshold float64 `yaml:"tilt_threshold"`
	// AlertDuration is how long an alert stays visible.
	AlertDuration time.Duration `yaml:"alert_duration"`
}

// DeviceConfig configures the simulated device.
type DeviceConfig struct {
	// InitialOrientation is the orientation type reported at start.
	InitialOrientation string `yaml:"initial_orientation"`
	// LockUnsupported makes every lock fail as unsupported.
	LockUnsupported bool `yaml:"lock_unsupported,omitempty"`
	// FullscreenUnsupported makes every fullscreen request fail.
	FullscreenUnsupported bool `yaml:"fullscreen_unsupported,omitempty"`
	// RequireFullscreen rejects locks outside fullscreen.
	RequireFullscreen bool `yaml:"require_fullscreen,omitempty"`
	// Permission is how the motion-sensor prompt is answered.
	Permission simulated.PermissionPolicy `yaml:"permission"`
}

// MQTTConfig configures the sensor bus.
type MQTTConfig struct {
	// Broker is the broker URL, e.g. tcp://127.0.0.1:1883; empty disables MQTT.
	Broker string `yaml:"broker,omitempty"`
	// ClientID is the client identifier prefix; binaries append their role.
	ClientID string `yaml:"client_id"`
	// TiltTopic carries JSON tilt samples.
	TiltTopic string `yaml:"tilt_topic"`
	// OrientationTopic carries plain-text orientation types.
	OrientationTopic string `yaml:"orientation_topic"`
	// AlertTopic receives a JSON document for every alert.
	AlertTopic string `yaml:"alert_topic"`
}

// IMUConfig configures where the tilt producer reads samples from.
type IMUConfig struct {
	// Source is "mock" or "mpu9250".
	Source string `yaml:"source"`
	// SPIDevice is the SPI device path of the MPU9250.
	SPIDevice string `yaml:"spi_device,omitempty"`
	// CSPin is the chip-select GPIO name of the MPU9250.
	CSPin string `yaml:"cs_pin,omitempty"`
	// SampleInterval is the delay between published samples.
	SampleInterval time.Duration `yaml:"sample_interval"`
}

// Enabled reports whether an MQTT broker is configured.
func (m MQTTConfig) Enabled() bool {
	return m.Broker != ""
}

// IMU sources.
const (
	IMUSourceMock    = "mock"
	IMUSourceMPU9250 = "mpu9250"
)

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "orientation-lock.yaml"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultAlertDuration is how long an alert stays visible by default.
	DefaultAlertDuration = 3 * time.Second

	// DefaultSampleInterval is the default tilt producer period.
	DefaultSampleInterval = 100 * time.Millisecond

	// DefaultClientID is the default MQTT client identifier prefix.
	DefaultClientID = "orientation-lock"

	// Default MQTT topics.
	DefaultTiltTopic        = "orientation-lock/tilt"
	DefaultOrientationTopic = "orientation-lock/orientation"
	DefaultAlertTopic       = "orientation-lock/alerts"

	// DefaultSPIDevice and DefaultCSPin address an MPU9250 on SPI0 CE0.
	DefaultSPIDevice = "/dev/spidev0.0"
	DefaultCSPin     = "GPIO8"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerSocketRequired is returned when server address is missing.
	errServerSocketRequired = errors.New("server address must be provided")
	// errInvalidThreshold is returned for thresholds outside (0, 90).
	errInvalidThreshold = errors.New("tilt threshold must be between 0 and 90 degrees")
	// errInvalidPermission is returned for unknown permission policies.
	errInvalidPermission = errors.New("unknown permission policy")
	// errInvalidIMUSource is returned for unknown IMU sources.
	errInvalidIMUSource = errors.New("unknown IMU source")
	// errInvalidLogLevel is returned for unknown log levels.
	errInvalidLogLevel = errors.New("unknown log level")
)

// Default returns a configuration listening on localhost with every default applied.
func Default() *Config {
	cfg := &Config{
		ServerAddress: "127.0.0.1:50051",
		HTTPAddress:   "127.0.0.1:8080",
	}

	// Defaults alone always validate.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the settings and fills in defaults for missing values.
//
//nolint:cyclop,funlen // A flat list of field checks reads best in one place.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		return errServerSocketRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	if settings.HTTPAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", settings.HTTPAddress); err != nil {
			return fmt.Errorf("invalid HTTP address: %w", err)
		}
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q%s", errInvalidLogLevel, settings.LogLevel,
			suggest(settings.LogLevel, "debug", "info", "warn", "error"))
	}

	target, err := lock.ParseTarget(string(settings.Lock.Target))
	if err != nil {
		return fmt.Errorf("%w%s", err,
			suggest(string(settings.Lock.Target), string(lock.TargetPortrait), string(lock.TargetCurrent)))
	}

	settings.Lock.Target = target

	switch {
	case settings.Lock.TiltThreshold == 0:
		settings.Lock.TiltThreshold = orientation.DefaultTiltThreshold
	case settings.Lock.TiltThreshold < 0 || settings.Lock.TiltThreshold >= 90:
		return fmt.Errorf("%w: %v", errInvalidThreshold, settings.Lock.TiltThreshold)
	}

	if settings.Lock.AlertDuration <= 0 {
		settings.Lock.AlertDuration = DefaultAlertDuration
	}

	if settings.Device.InitialOrientation == "" {
		settings.Device.InitialOrientation = orientation.TypePortraitPrimary
	}

	switch settings.Device.Permission {
	case "":
		settings.Device.Permission = simulated.PermissionGranted
	case simulated.PermissionGranted, simulated.PermissionDenied, simulated.PermissionNotRequired:
	default:
		return fmt.Errorf("%w: %q%s", errInvalidPermission, settings.Device.Permission,
			suggest(string(settings.Device.Permission), string(simulated.PermissionGranted),
				string(simulated.PermissionDenied), string(simulated.PermissionNotRequired)))
	}

	if err := validateMQTT(&settings.MQTT); err != nil {
		return err
	}

	return validateIMU(&settings.IMU)
}

func validateMQTT(m *MQTTConfig) error {
	if m.Broker != "" {
		if _, err := url.ParseRequestURI(m.Broker); err != nil {
			return fmt.Errorf("invalid MQTT broker URI: %w", err)
		}
	}

	if m.ClientID == "" {
		m.ClientID = DefaultClientID
	}

	if m.TiltTopic == "" {
		m.TiltTopic = DefaultTiltTopic
	}

	if m.OrientationTopic == "" {
		m.OrientationTopic = DefaultOrientationTopic
	}

	if m.AlertTopic == "" {
		m.AlertTopic = DefaultAlertTopic
	}

	return nil
}

func validateIMU(i *IMUConfig) error {
	switch i.Source {
	case "":
		i.Source = IMUSourceMock
	case IMUSourceMock:
	case IMUSourceMPU9250:
		if i.SPIDevice == "" {
			i.SPIDevice = DefaultSPIDevice
		}

		if i.CSPin == "" {
			i.CSPin = DefaultCSPin
		}
	default:
		return fmt.Errorf("%w: %q%s", errInvalidIMUSource, i.Source, suggest(i.Source, IMUSourceMock, IMUSourceMPU9250))
	}

	if i.SampleInterval <= 0 {
		i.SampleInterval = DefaultSampleInterval
	}

	return nil
}
