package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the build version, injected with
// -ldflags "-X github.com/unsafe9/claude-tmux-hop/cmd.Version=v1.2.3".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("claude-tmux-hop " + Version)
	},
}

func init() {
	rootCmd.Version = Version
	rootCmd.AddCommand(versionCmd)
}
