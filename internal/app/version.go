package app

import (
	"fmt"
	"runtime/debug"
)

// Set via ldflags, e.g.
// -X github.com/heartmarshall/proposalflow-backend/internal/app.Version=1.4.0
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion is reported by /health, the startup log line and
// `proposalctl version`. Without ldflags it falls back to the VCS stamp the
// Go toolchain embeds in the binary.
func BuildVersion() string {
	commit, built := Commit, BuildTime
	if commit == "unknown" || built == "unknown" {
		vcsCommit, vcsTime := vcsStamp()
		if commit == "unknown" && vcsCommit != "" {
			commit = vcsCommit
		}
		if built == "unknown" && vcsTime != "" {
			built = vcsTime
		}
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, commit, built)
}

func vcsStamp() (revision, at string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
			if len(revision) > 12 {
				revision = revision[:12]
			}
		case "vcs.time":
			at = s.Value
		}
	}
	return revision, at
}
