// Package version holds build metadata injected at link time:
//
//	go build -ldflags "-X git.home.luguber.info/inful/releaser/internal/version.Version=v1.0.0"
package version

// Build metadata; "unknown" outside release builds.
var (
	Version   = "unknown"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the line printed by --version.
func String() string {
	return "releaser " + Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
