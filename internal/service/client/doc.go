// Package client implements the one-shot commands of orientation-lock-ctl.
//
// Each command connects to the lock server, performs a single action (lock,
// unlock, status or dismiss) and logs the resulting view. Transport failures
// are retried a few times; domain errors such as a denied permission are not.
package client
