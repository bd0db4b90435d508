package version

import "fmt"

var (
	// Version is the semantic version of the build.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time.
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the semantic version.
func Short() string {
	return Version
}

// Full returns version, commit and build time on one line.
func Full() string {
	return fmt.Sprintf("orientation-lock %s (commit %s, built %s)", Version, Commit, BuildTime)
}

// UserAgent identifies a client binary, e.g. "orientation-lock-ctl/0.1.0".
func UserAgent(binary string) string {
	return binary + "/" + Version
}
