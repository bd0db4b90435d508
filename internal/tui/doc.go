// Package tui is a terminal front end for the orientation lock. It drives
// an in-process controller and lets the user play the device: arrow keys
// tilt the phone, p and o rotate the screen.
package tui
