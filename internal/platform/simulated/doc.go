// Package simulated implements every platform capability with an in-memory
// device: a screen that can be pinned, a fullscreen flag, a permission prompt
// with a fixed answer and a tilt sample fan-out.
//
// Physical rotations reported while the screen is pinned are remembered and
// applied when the pin is released, like a phone with rotation lock on.
package simulated
