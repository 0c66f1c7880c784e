// ABOUTME: CLI command printing the cycle version.
// ABOUTME: Runs without config or database setup.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const appVersion = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the cycle version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cycle %s\n", appVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
