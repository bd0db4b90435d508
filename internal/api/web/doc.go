// Package web exposes the lock controller over HTTP.
//
// The JSON API mirrors the gRPC service, and /api/ws is a websocket that
// pushes every view snapshot and accepts tilt samples and orientation
// reports from a phone browser along with lock commands.
package web
