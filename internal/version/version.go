// Package version carries build-time metadata injected via ldflags.
package version

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = ""
	// BuildDate is the build timestamp.
	BuildDate = ""
)
