// Package versioning stamps the documentation site with the release version
// of the documented library, read from its git repository.
package versioning

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

const (
	// FallbackVersion is used when the repository has no tags.
	FallbackVersion = "0.0.0"
	// UnknownCommit is used when HEAD cannot be resolved.
	UnknownCommit = "unknown"
	// VersionFileName is the file written to the public directory.
	VersionFileName = "version.json"

	shortHashLen = 7
	isoMillis    = "2006-01-02T15:04:05.000Z07:00"
)

// Info describes the documented release.
type Info struct {
	Version     string `json:"version"`
	MajorMinor  string `json:"majorMinor"`
	CommitHash  string `json:"commitHash"`
	CommitDate  string `json:"commitDate"`
	GeneratedAt string `json:"generatedAt"`
}

var majorMinorRe = regexp.MustCompile(`^(\d+\.\d+)`)

// MajorMinor returns the leading "N.N" of version, or version itself when it
// does not start that way. "2.0.0-beta.1" becomes "2.0".
func MajorMinor(version string) string {
	if m := majorMinorRe.FindStringSubmatch(version); m != nil {
		return m[1]
	}
	return version
}

// newInfo fills the derived fields.
func newInfo(version, hash, date string, now time.Time) Info {
	return Info{
		Version:     version,
		MajorMinor:  MajorMinor(version),
		CommitHash:  hash,
		CommitDate:  date,
		GeneratedAt: now.UTC().Format(isoMillis),
	}
}

// WriteVersionFile writes info as indented JSON to <publicDir>/version.json
// and returns the written path.
func WriteVersionFile(publicDir string, info Info) (string, error) {
	// #nosec G301 -- static site assets are meant to be world readable.
	if err := os.MkdirAll(publicDir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", publicDir, err)
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode version info: %w", err)
	}
	path := filepath.Join(publicDir, VersionFileName)
	// #nosec G306 -- static site assets are meant to be world readable.
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
