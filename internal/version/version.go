// Package version exposes build metadata injected at link time, e.g.
// go build -ldflags "-X github.com/faizmokh/angkat/internal/version.Version=v0.1.0".
package version

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Build groups the link-time metadata.
type Build struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Current returns the metadata of the running binary.
func Current() Build {
	return Build{Version: Version, Commit: Commit, Date: Date}
}

func (b Build) String() string {
	return fmt.Sprintf("angkat %s (commit %s, built %s)", b.Version, b.Commit, b.Date)
}
