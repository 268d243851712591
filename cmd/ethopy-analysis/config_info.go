package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configInfoFormat string
)

var configInfoCmd = &cobra.Command{
	Use:   "config-info",
	Short: "Print the effective configuration",
	Long: `Print the configuration after merging the config file, environment
overrides, and command-line flags.`,
	Run: runConfigInfo,
}

func init() {
	configInfoCmd.Flags().StringVar(&configInfoFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(configInfoCmd)
}

func runConfigInfo(cmd *cobra.Command, args []string) {
	logger := newLogger(configInfoFormat)
	cfg := loadEffectiveConfig(logger)

	if OutputFormat(configInfoFormat) == FormatHuman {
		fmt.Println("Effective configuration")
		fmt.Println("========================")
		fmt.Printf("Database path: %s\n", cfg.Database.Path)
		fmt.Printf("Schemas path: %s\n", cfg.Schemas.Path)
		fmt.Printf("Output dir: %s\n", cfg.Paths.Output)
		fmt.Printf("Reports dir: %s\n", cfg.Paths.Reports)
		fmt.Printf("Log format: %s\n", cfg.Logging.Format)
		fmt.Printf("Log level: %s\n", cfg.Logging.Level)
		return
	}

	output, err := FormatResponse(cfg, OutputFormat(configInfoFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
