// Package buildinfo holds version metadata stamped in with -ldflags, e.g.
// -X github.com/cleared-dev/categorizer/internal/buildinfo.Version=v1.2.0.
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String formats the build metadata for --version and the health check.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
