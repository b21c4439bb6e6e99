package common

import "fmt"

// Build information. Populated at build-time via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// VersionInfo holds version metadata for the /api/version endpoint
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
}

// GetVersionInfo returns the current build's version metadata
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
	}
}

// VersionString returns a human-readable version string
func VersionString() string {
	return fmt.Sprintf("tickerd %s (%s, built %s)", Version, GitCommit, BuildDate)
}
