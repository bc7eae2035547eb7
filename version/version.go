// Package version reports build metadata for devlog binaries.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set via ldflags, e.g.
//
//	-X go.jacobcolvin.com/devlog/version.Version=v1.2.3
var (
	Version   string
	BuildDate string
)

// Info is the build metadata of the running binary.
type Info struct {
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	BuildDate string `json:"buildDate,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get collects [Info] from ldflags and the embedded build info.
func Get() Info {
	info := Info{
		Version:   Version,
		BuildDate: BuildDate,
		Revision:  "unknown",
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		if info.Version == "" {
			info.Version = "devel"
		}

		return info
	}

	if info.Version == "" {
		info.Version = bi.Main.Version
	}

	if info.Version == "" || info.Version == "(devel)" {
		info.Version = "devel"
	}

	info.Revision = revision(bi.Settings)

	return info
}

func revision(settings []debug.BuildSetting) string {
	rev := "unknown"
	dirty := false

	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	if dirty {
		return rev + "-dirty"
	}

	return rev
}

// String renders i on a single line.
func (i Info) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "devlog %s (revision %s", i.Version, i.Revision)

	if i.BuildDate != "" {
		fmt.Fprintf(&sb, ", built %s", i.BuildDate)
	}

	fmt.Fprintf(&sb, ", %s %s)", i.GoVersion, i.Platform)

	return sb.String()
}
