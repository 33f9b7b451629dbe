package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags.
var (
	GitTag    = "dev"
	GitCommit = "unknown"
)

var versionCmd = &cobra.Command{
	Use: "version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("toon %s (%s)\n", GitTag, GitCommit)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
