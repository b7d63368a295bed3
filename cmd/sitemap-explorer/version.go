package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Overridden at release time with -ldflags "-X main.version=...".
var (
	version = ""
	commit  = ""
	date    = ""
)

type buildInfo struct {
	Version string
	Commit  string
	Date    string
}

// currentBuild merges the ldflags values with what the Go toolchain embedded
// in the binary. ldflags win.
func currentBuild() buildInfo {
	b := buildInfo{Version: "(devel)", Commit: "unknown", Date: "unknown"}

	if info, ok := debug.ReadBuildInfo(); ok {
		b = b.merge(fromModuleInfo(info))
	}
	return b.merge(buildInfo{Version: version, Commit: commit, Date: date})
}

func fromModuleInfo(info *debug.BuildInfo) buildInfo {
	var b buildInfo
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		b.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			b.Commit = s.Value
		case "vcs.time":
			b.Date = s.Value
		}
	}
	if len(b.Commit) > 12 {
		b.Commit = b.Commit[:12]
	}
	return b
}

// merge returns b with every non-empty field of other applied on top.
func (b buildInfo) merge(other buildInfo) buildInfo {
	if other.Version != "" {
		b.Version = other.Version
	}
	if other.Commit != "" {
		b.Commit = other.Commit
	}
	if other.Date != "" {
		b.Date = other.Date
	}
	return b
}

func (b buildInfo) String() string {
	return fmt.Sprintf("%s (%s, %s)", b.Version, b.Commit, b.Date)
}

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "sitemap-explorer %s\n", currentBuild())
			return err
		},
	}
}
