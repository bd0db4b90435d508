// Package platform declares the device capabilities the orientation lock
// controller depends on: screen orientation query/lock, fullscreen, the
// motion-sensor permission and the tilt sample stream.
//
// Adapters live in sub-packages. The simulated device implements every
// capability in memory and accepts samples from MQTT, websocket or TUI feeds
// through the Sink interface.
package platform
