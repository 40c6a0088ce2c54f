package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.5.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of nefu",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("nefu version " + version)
	},
}
