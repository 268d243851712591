package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ef-lab/ethopy-analysis/internal/query"
)

var (
	licksFormat   string
	licksAnimalID int
	licksSession  int
)

var licksCmd = &cobra.Command{
	Use:   "licks",
	Short: "List lick events for a session",
	Long: `List every lick event of a session with its port and time.

Examples:
  ethopy-analysis licks --animal-id=123 --session=5
  ethopy-analysis licks --animal-id=123 --session=5 --format=json`,
	Run: runLicks,
}

func init() {
	licksCmd.Flags().StringVar(&licksFormat, "format", "human", "Output format (json, human)")
	licksCmd.Flags().IntVar(&licksAnimalID, "animal-id", 0, "Animal ID (required)")
	licksCmd.Flags().IntVar(&licksSession, "session", 0, "Session number (required)")
	licksCmd.MarkFlagRequired("animal-id")
	licksCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(licksCmd)
}

func runLicks(cmd *cobra.Command, args []string) {
	logger := newLogger(licksFormat)
	engine := mustGetEngine(logger)
	ctx := newContext()

	licks, err := engine.TrialLicks(ctx, licksAnimalID, licksSession)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing licks: %v\n", err)
		os.Exit(1)
	}

	response := &LicksResponseCLI{
		AnimalID:   licksAnimalID,
		Session:    licksSession,
		Licks:      licks,
		TotalCount: len(licks),
	}

	output, err := FormatResponse(response, OutputFormat(licksFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

// LicksResponseCLI contains the lick listing for CLI output
type LicksResponseCLI struct {
	AnimalID   int          `json:"animalId"`
	Session    int          `json:"session"`
	Licks      []query.Lick `json:"licks"`
	TotalCount int          `json:"totalCount"`
}
