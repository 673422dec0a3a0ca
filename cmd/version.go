package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set by -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var flagShortVersion bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints version information",
	Run: func(cmd *cobra.Command, args []string) {
		info, _ := debug.ReadBuildInfo()
		b := resolveBuild(info)
		out := cmd.OutOrStdout()
		if flagShortVersion {
			fmt.Fprintln(out, b.Version)
			return
		}
		fmt.Fprintf(out, "badgerclips %s\n", b.Version)
		fmt.Fprintf(out, "Commit: %s\n", b.Commit)
		fmt.Fprintf(out, "Date:   %s\n", b.Date)
		if b.GoVersion != "" {
			fmt.Fprintf(out, "Go:     %s\n", b.GoVersion)
		}
	},
}

type buildInfo struct {
	Version, Commit, Date, GoVersion string
}

// resolveBuild prefers ldflags values and falls back to the module and VCS
// stamps the Go toolchain embeds (go install, go build in a checkout).
func resolveBuild(info *debug.BuildInfo) buildInfo {
	b := buildInfo{Version: version, Commit: commit, Date: date}
	if info == nil {
		return b
	}
	b.GoVersion = info.GoVersion
	if b.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		b.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "none" {
				b.Commit = s.Value
			}
		case "vcs.time":
			if b.Date == "unknown" {
				b.Date = s.Value
			}
		}
	}
	return b
}

func init() {
	versionCmd.Flags().BoolVar(&flagShortVersion, "short", false, "print only the version number")
	rootCmd.AddCommand(versionCmd)
}
