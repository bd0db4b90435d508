// Package watcher follows the lock server's view stream and logs every
// change, reconnecting when the stream breaks.
package watcher
