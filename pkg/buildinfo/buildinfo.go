// Package buildinfo reports the hubmap version.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/hubmap/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/hubmap/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/hubmap
//
// Builds installed with `go install` fall back to the module version and VCS
// settings recorded by the toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == "none":
			Commit = s.Value
		case s.Key == "vcs.time" && Date == "unknown":
			Date = s.Value
		}
	}
}

// Short returns the version and, when known, the abbreviated commit.
func Short() string {
	if Commit == "none" || len(Commit) < 7 {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit[:7])
}

// String returns the multi-line build description.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} " + Short() + "\nbuilt: " + Date + "\n"
}
