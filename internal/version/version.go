// Package version centralizes build and version metadata.
package version

var (
	// Version is the current semantic version of rbmap.
	Version = "0.2.0"

	// BuildDate is set during build time (use -ldflags).
	BuildDate = "development"

	// GitCommit is set during build time (use -ldflags).
	GitCommit = "unknown"
)

// Info returns the bare version string.
func Info() string {
	return Version
}

// FullInfo returns detailed version information.
func FullInfo() string {
	return "rbmap " + Version + " (commit: " + GitCommit + ", built: " + BuildDate + ")"
}
