// Package producer reads tilt samples from an IMU source and publishes
// them on the MQTT tilt topic, feeding the lock server's sensor bus.
package producer
