// Package version reports build metadata for the finderex binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	Version   string // Set via ldflags.
	Branch    string
	BuildUser string
	BuildDate string

	Revision  = getRevision()
	GoVersion = runtime.Version()
	GoOS      = runtime.GOOS
	GoArch    = runtime.GOARCH
)

// GetVersion returns the release version, or the VCS revision for
// development builds.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	return Revision
}

// String returns a multi-line description of the build.
func String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "finderex %s\n", GetVersion())
	fmt.Fprintf(&b, "  revision: %s\n", Revision)

	if Branch != "" {
		fmt.Fprintf(&b, "  branch: %s\n", Branch)
	}

	if BuildUser != "" || BuildDate != "" {
		fmt.Fprintf(&b, "  built: %s by %s\n", BuildDate, BuildUser)
	}

	fmt.Fprintf(&b, "  go: %s %s/%s\n", GoVersion, GoOS, GoArch)

	return b.String()
}

func getRevision() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	return revisionFromSettings(buildInfo.Settings)
}

func revisionFromSettings(settings []debug.BuildSetting) string {
	rev := "unknown"
	modified := false

	for _, v := range settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value
			if len(rev) > 7 {
				rev = rev[:7]
			}

		case "vcs.modified":
			modified = v.Value == "true"
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
