// Package demo runs the orientation lock in-process behind the terminal UI,
// with the simulated device standing in for the phone.
package demo
