// Package logger wraps zap for the orientation-lock binaries:
//   - a global sugared logger with a compact console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and runtime level changes,
//   - KV shortcuts (InfoKV, WarnKV, ErrorKV, DebugKV).
//
// Services carry the logger in their context, so a controller callback logs
// with the same name and fields as the command that created it.
package logger
