// Package version reports the smartcalc build version.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/smartcalc/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/smartcalc/internal/version.Commit=abc123"
//
// Unset values come from the VCS stamp in the build info, then fall back to
// a dev version.
var (
	// Version is the semantic version of the application
	Version = ""
	// Commit is the git commit hash
	Commit = ""
	// BuildTime is the commit or build time, RFC 3339
	BuildTime = ""
)

// Info is the version payload served by the HTTP server and printed by the CLI.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		fromBuildInfo(info.Settings)
	}

	if Version == "" {
		Version = fmt.Sprintf("dev-%s", time.Now().Format("20060102-150405"))
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildInfo fills unset variables from the vcs.* build settings.
func fromBuildInfo(settings []debug.BuildSetting) {
	vcs := make(map[string]string, len(settings))
	for _, s := range settings {
		vcs[s.Key] = s.Value
	}

	if rev := vcs["vcs.revision"]; Commit == "" && rev != "" {
		if len(rev) > 7 {
			rev = rev[:7]
		}
		if vcs["vcs.modified"] == "true" {
			rev += "-dirty"
		}
		Commit = rev
	}

	t, err := time.Parse(time.RFC3339, vcs["vcs.time"])
	if err != nil {
		return
	}
	if BuildTime == "" {
		BuildTime = t.UTC().Format(time.RFC3339)
	}
	// build info carries no tags
	if Version == "" {
		Version = fmt.Sprintf("dev-%s", t.Format("20060102"))
	}
}

// Get returns the version details of the running binary.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
