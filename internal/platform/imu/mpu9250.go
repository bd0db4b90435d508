package imu

import (
	"fmt"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"

	"github.com/oshokin/orientation-lock/internal/domain/orientation"
)

type mpu9250Source struct {
	dev *mpu9250.MPU9250
}

// NewMPU9250Source initialises an MPU9250 on the given SPI device and
// chip-select pin, calibrates it and returns a Source reading its
// accelerometer.
func NewMPU9250Source(spiDevice, csPin string) (Source, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	cs := gpioreg.ByName(csPin)
	if cs == nil {
		return nil, fmt.Errorf("IMU chip-select pin %q not found", csPin)
	}

	tr, err := mpu9250.NewSpiTransport(spiDevice, cs)
	if err != nil {
		return nil, fmt.Errorf("IMU SPI transport (%s): %w", spiDevice, err)
	}

	dev, err := mpu9250.New(*tr)
	if err != nil {
		return nil, fmt.Errorf("IMU device: %w", err)
	}

	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("IMU init: %w", err)
	}

	if err := dev.Calibrate(); err != nil {
		return nil, fmt.Errorf("IMU calibrate: %w", err)
	}

	return &mpu9250Source{dev: dev}, nil
}

func (s *mpu9250Source) Next() (orientation.TiltSample, error) {
	ax, err := s.dev.GetAccelerationX()
	if err != nil {
		return orientation.TiltSample{}, fmt.Errorf("IMU accel X: %w", err)
	}

	ay, err := s.dev.GetAccelerationY()
	if err != nil {
		return orientation.TiltSample{}, fmt.Errorf("IMU accel Y: %w", err)
	}

	az, err := s.dev.GetAccelerationZ()
	if err != nil {
		return orientation.TiltSample{}, fmt.Errorf("IMU accel Z: %w", err)
	}

	return AccelToTilt(float64(ax), float64(ay), float64(az)), nil
}
