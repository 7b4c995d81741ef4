// Package version reports the build version of staticssdp.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set at link time:
//
//	go build -ldflags="-X github.com/muurk/staticssdp/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/staticssdp/internal/version.Commit=abc123"
//
// Unset values are filled from the embedded build info.
var (
	Version = ""
	Commit  = ""
)

const shortCommit = 7

func init() {
	info, _ := debug.ReadBuildInfo()
	Version, Commit = resolve(Version, Commit, info, time.Now())
}

// resolve fills in whatever the linker left empty. A module version recorded
// by 'go install pkg@vX' wins over a VCS date, and "dev-<now>" is the last
// resort.
func resolve(version, commit string, info *debug.BuildInfo, now time.Time) (string, string) {
	if info != nil {
		settings := make(map[string]string, len(info.Settings))
		for _, s := range info.Settings {
			settings[s.Key] = s.Value
		}

		if commit == "" {
			if rev := settings["vcs.revision"]; rev != "" {
				if len(rev) > shortCommit {
					rev = rev[:shortCommit]
				}
				if settings["vcs.modified"] == "true" {
					rev += "-dirty"
				}
				commit = rev
			}
		}

		if version == "" {
			if v := info.Main.Version; v != "" && v != "(devel)" {
				version = v
			} else if t, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
				version = "dev-" + t.Format("20060102")
			}
		}
	}

	if version == "" {
		version = "dev-" + now.Format("20060102-150405")
	}
	if commit == "" {
		commit = "unknown"
	}
	return version, commit
}

// Full returns the version with its commit.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

