// Package version reports the build information of the running binary.
//
// Release builds stamp it with ldflags:
//
//	go build -ldflags "-X github.com/example/taskapi/internal/version.Version=v1.2.0 \
//	  -X github.com/example/taskapi/internal/version.Commit=$(git rev-parse HEAD)"
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via ldflags.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Info is the build information reported by --version and /healthz.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time,omitempty"`
}

// Get returns the build information. Commit and BuildTime fall back to the VCS
// stamp the Go toolchain embeds when ldflags left them empty.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, BuildTime: BuildTime}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.Commit == "":
				info.Commit = s.Value
			case s.Key == "vcs.time" && info.BuildTime == "":
				info.BuildTime = s.Value
			}
		}
	}

	if info.Commit == "" {
		info.Commit = "unknown"
	}
	info.Commit = shortCommit(info.Commit)
	return info
}

// String formats the build information for humans.
func String() string {
	info := Get()
	if info.BuildTime == "" {
		return fmt.Sprintf("taskapi %s (commit: %s)", info.Version, info.Commit)
	}
	return fmt.Sprintf("taskapi %s (commit: %s, built: %s)", info.Version, info.Commit, info.BuildTime)
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
