// Package buildinfo carries version information stamped in at link time:
//
//	go build -ldflags "-X github.com/repeatyourselfpls/family-tree-v2/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/repeatyourselfpls/family-tree-v2/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/repeatyourselfpls/family-tree-v2/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/familytree
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Info is the build information as reported by the HTTP API.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}
