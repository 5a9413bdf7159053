// Package version exposes the partdex build identity stamped by the
// release pipeline.
package version

// Overwritten through -ldflags at build time; the zero values mark a
// local, unstamped binary.
//
//nolint:revive
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
