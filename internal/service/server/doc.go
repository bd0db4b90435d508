// Package server runs the orientation-lock server: a simulated device, the
// lock controller on top of it, the gRPC and HTTP APIs and, when a broker
// is configured, the MQTT sensor feed and alert publishing.
package server
