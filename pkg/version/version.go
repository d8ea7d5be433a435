// Package version reports the build version, set at link time:
//
//	go build -ldflags "-X github.com/rshade/loadcalc/pkg/version.version=v1.2.3"
package version

import "runtime/debug"

//nolint:gochecknoglobals // Overridden with -ldflags -X.
var (
	version   = ""
	gitCommit = ""
	buildDate = ""
)

// GetVersion returns the linked version, the module version recorded by
// `go install`, or "dev".
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// GetGitCommit returns the linked commit hash, if any.
func GetGitCommit() string { return gitCommit }

// GetBuildDate returns the linked build date, if any.
func GetBuildDate() string { return buildDate }

// String is the full version line printed by --version.
func String() string {
	s := GetVersion()
	if gitCommit != "" {
		s += " (" + gitCommit
		if buildDate != "" {
			s += ", " + buildDate
		}
		s += ")"
	}
	return s
}
