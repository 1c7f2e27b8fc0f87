package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/gqlframes/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show gqlframes version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
