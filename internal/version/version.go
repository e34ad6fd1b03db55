// Package version holds build metadata set via ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/docextract/internal/version.Version=v1.0.0"
package version

import "fmt"

// Version is the application version.
var Version = "unknown"

// Build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns the one-line version banner printed by --version.
func String() string {
	return fmt.Sprintf("docextract %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
