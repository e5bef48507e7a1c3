// Package version reports what binary is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time with
//
//	-ldflags "-X github.com/example/stockroom/internal/version.Version=v1.2.0 -X ...Commit=$(git rev-parse HEAD)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// String returns the one-line version printed by `stockroom version`.
func String() string {
	return fmt.Sprintf("stockroom %s (commit: %s, built: %s, %s)", Version, shortCommit(), BuildTime, runtime.Version())
}

// shortCommit prefers the ldflags commit and falls back to the revision the
// go command stamps into module builds.
func shortCommit() string {
	if Commit == "unknown" {
		return vcsRevision()
	}
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}

func vcsRevision() string {
	info, ok := readBuildInfo()
	if !ok {
		return "unknown"
	}
	revision, dirty := "", false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return "unknown"
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if dirty {
		revision += "-dirty"
	}
	return revision
}
