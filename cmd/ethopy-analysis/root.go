package main

import (
	"github.com/spf13/cobra"
)

// Version is the CLI version reported by --version.
const Version = "0.2.0"

var (
	// verboseFlag enables debug logging on every command
	verboseFlag bool

	// dbFlag overrides the configured database path
	dbFlag string

	// configFlag points at a directory containing config.json
	configFlag string
)

var rootCmd = &cobra.Command{
	Use:   "ethopy-analysis",
	Short: "Query and visualize Ethopy behavioral experiment data",
	Long: `ethopy-analysis reads an Ethopy experiment database snapshot and provides
session listings, trial and event queries, performance analysis, plots,
and per-animal reports.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate("ethopy-analysis version {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "",
		"Path to the experiment database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"Directory containing config.json")
}
