// Package version reports build metadata: values injected with -ldflags
// when releasing, falling back to the VCS stamps the Go toolchain embeds.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Set at build time with -ldflags "-X".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// trackedModules are the dependencies whose versions matter when reporting
// generated output: they shape the bundle and the templ markup.
var trackedModules = []string{
	"github.com/evanw/esbuild",
	"github.com/a-h/templ",
}

// Info is the build metadata of the running binary.
type Info struct {
	Version   string            `json:"version"`
	GitCommit string            `json:"git_commit"`
	BuildTime time.Time         `json:"build_time"`
	GoVersion string            `json:"go_version"`
	Platform  string            `json:"platform"`
	Dirty     bool              `json:"dirty"`
	Modules   map[string]string `json:"modules,omitempty"`
}

// Get collects build metadata.
func Get() Info {
	bi, _ := debug.ReadBuildInfo()
	return fromBuildInfo(bi, Version, GitCommit, BuildTime)
}

func fromBuildInfo(bi *debug.BuildInfo, version, commit, built string) Info {
	info := Info{
		Version:   version,
		GitCommit: commit,
		BuildTime: parseTime(built),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi == nil {
		return info
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" || info.GitCommit == "unknown" {
				info.GitCommit = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		case "vcs.time":
			if info.BuildTime.IsZero() {
				info.BuildTime = parseTime(s.Value)
			}
		}
	}

	if info.Version == "" || info.Version == "dev" {
		switch {
		case bi.Main.Version != "" && bi.Main.Version != "(devel)":
			info.Version = bi.Main.Version
		case len(info.GitCommit) >= 7 && info.GitCommit != "unknown":
			info.Version = "dev-" + info.GitCommit[:7]
		default:
			info.Version = "dev"
		}
	}

	for _, dep := range bi.Deps {
		for _, tracked := range trackedModules {
			if dep.Path == tracked {
				if info.Modules == nil {
					info.Modules = make(map[string]string)
				}
				info.Modules[dep.Path] = dep.Version
			}
		}
	}
	return info
}

// IsRelease reports whether the version is a tagged release.
func (i Info) IsRelease() bool {
	return i.Version != "dev" && !strings.HasPrefix(i.Version, "dev-")
}

// Short is the one-line form: version, short commit and dirty marker.
func (i Info) Short() string {
	s := i.Version
	if len(i.GitCommit) >= 7 && i.GitCommit != "unknown" && !strings.HasSuffix(s, i.GitCommit[:7]) {
		s += " (" + i.GitCommit[:7] + ")"
	}
	if i.Dirty {
		s += " (dirty)"
	}
	return s
}

// Detailed lists every known field, one per line.
func (i Info) Detailed() string {
	lines := []string{"Version: " + i.Version}
	if i.GitCommit != "unknown" && i.GitCommit != "" {
		lines = append(lines, "Commit: "+i.GitCommit)
	}
	if !i.BuildTime.IsZero() {
		lines = append(lines, "Built: "+i.BuildTime.UTC().Format(time.RFC3339))
	}
	lines = append(lines, "Go: "+i.GoVersion, "Platform: "+i.Platform)
	for _, m := range trackedModules {
		if v, ok := i.Modules[m]; ok {
			lines = append(lines, fmt.Sprintf("%s: %s", m, v))
		}
	}
	return strings.Join(lines, "\n")
}

func parseTime(s string) time.Time {
	if s == "" || s == "unknown" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
