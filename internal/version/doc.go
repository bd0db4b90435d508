// Package version exposes build metadata for the orientation-lock binaries.
//
// Version, Commit and BuildTime are injected with -ldflags at build time.
// Full renders them for the `version` subcommand and UserAgent tags outgoing
// gRPC connections with the same data.
package version
