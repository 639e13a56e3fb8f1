package version

import (
	"regexp"
	"strings"

	"github.com/fatih/color"
)

// Version information for the mend CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI, coloured when stdout is a terminal.
	Version = versionMajorColor.Sprint("0") + "." + versionMinorColor.Sprint("1") + "." + versionPatchColor.Sprint("0") + "-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Plain returns Version without colour codes, "dev" when unset. Machine
// readable outputs (SARIF, JSON) use it.
func Plain() string {
	v := strings.TrimSpace(ansi.ReplaceAllString(Version, ""))
	if v == "" {
		return "dev"
	}
	return v
}

// Info is the build metadata shown by `mend version`.
type Info struct {
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

// Collect snapshots the build metadata.
func Collect() Info {
	return Info{
		Version:    Plain(),
		GitCommit:  strings.TrimSpace(GitCommit),
		GitMessage: strings.TrimSpace(GitMessage),
		BuildDate:  strings.TrimSpace(BuildDate),
	}
}
