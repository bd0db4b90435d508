// Package imu produces tilt samples from an inertial measurement unit.
//
// Two sources exist: a mock that sweeps the device through portrait and
// landscape, and an MPU9250 accelerometer read over SPI with periph.
package imu
