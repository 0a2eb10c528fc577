// Package version holds resumerank build metadata injected via ldflags
// and logged on startup.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
