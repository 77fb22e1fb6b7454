package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tscheck-dev/tscheck/internal/version"
)

// versionCmd implements the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tscheck",
	Run: func(_ *cobra.Command, _ []string) {
		info := version.Get()
		fmt.Printf("tscheck version %s\n", info.Full())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
