package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is stamped at build time:
//
//	go build -ldflags "-X github.com/jorgejac1/allylab-sub006/cmd.version=v1.2.3"
//
// Binaries installed with go install fall back to the module version from
// build info instead.
var version = "dev"

func resolveVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the allylab version",
		Long:  "Displays the allylab release version and the Go version it was built with.",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("allylab %s\n", resolveVersion())
			if info, ok := debug.ReadBuildInfo(); ok {
				cmd.Printf("built with %s\n", info.GoVersion)
			}
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
