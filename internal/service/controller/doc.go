// Package controller orchestrates the orientation lock.
//
// A Controller owns the single lock.View of a session. It observes
// orientation changes from startup, runs the lock and unlock sequences
// against the platform capabilities, feeds tilt samples to the mismatch
// detector while locked, and clears alerts after a fixed delay. Every view
// change is pushed to subscribers, who only ever see the latest snapshot.
package controller
