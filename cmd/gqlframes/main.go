package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/gqlframes/internal/version"
)

var (
	// Persistent flags available to all subcommands
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "gqlframes",
	Short: "gqlframes reshapes GraphQL responses into dashboard data frames",
	Long: `gqlframes sends GraphQL queries to configured upstream endpoints and
reshapes the JSON responses into typed, grouped data frames and annotation
events.

Without a subcommand it serves the HTTP API. Configuration is read from
config/<ENV>.yaml unless --config is given.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default: config/$ENV.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.SetVersionTemplate(version.String() + "\n")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
