package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ef-lab/ethopy-analysis/internal/query"
)

var (
	setupFormat string
	setupName   string
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Resolve the animal and session running on a setup",
	Long: `Look up a setup in the control table and report the animal, session,
and status recorded for it.

Examples:
  ethopy-analysis setup --name=rig1
  ethopy-analysis setup --name=rig1 --format=json`,
	Run: runSetup,
}

func init() {
	setupCmd.Flags().StringVar(&setupFormat, "format", "human", "Output format (json, human)")
	setupCmd.Flags().StringVar(&setupName, "name", "", "Setup name (required)")
	setupCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) {
	logger := newLogger(setupFormat)
	engine := mustGetEngine(logger)
	ctx := newContext()

	info, err := engine.SetupInfo(ctx, setupName)
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "Setup %q not found\n", setupName)
		} else {
			fmt.Fprintf(os.Stderr, "Error resolving setup: %v\n", err)
		}
		os.Exit(1)
	}

	response := &SetupResponseCLI{
		Setup:    info.Setup,
		AnimalID: info.AnimalID,
		Session:  info.Session,
		Status:   info.Status,
	}

	output, err := FormatResponse(response, OutputFormat(setupFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

// SetupResponseCLI contains the setup lookup result for CLI output
type SetupResponseCLI struct {
	Setup    string `json:"setup"`
	AnimalID int    `json:"animalId"`
	Session  int    `json:"session"`
	Status   string `json:"status"`
}
