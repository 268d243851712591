package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ef-lab/ethopy-analysis/internal/query"
)

var (
	trialsFormat        string
	trialsAnimalID      int
	trialsSession       int
	trialsRemoveAborted bool
)

var trialsCmd = &cobra.Command{
	Use:   "trials",
	Short: "List the trials of a session",
	Long: `List every trial of a session with its condition hash and timing.
Aborted trials are included unless --remove-aborted is set.

Examples:
  ethopy-analysis trials --animal-id=123 --session=5
  ethopy-analysis trials --animal-id=123 --session=5 --remove-aborted`,
	Run: runTrials,
}

func init() {
	trialsCmd.Flags().StringVar(&trialsFormat, "format", "human", "Output format (json, human)")
	trialsCmd.Flags().IntVar(&trialsAnimalID, "animal-id", 0, "Animal ID (required)")
	trialsCmd.Flags().IntVar(&trialsSession, "session", 0, "Session number (required)")
	trialsCmd.Flags().BoolVar(&trialsRemoveAborted, "remove-aborted", false, "Exclude aborted trials")
	trialsCmd.MarkFlagRequired("animal-id")
	trialsCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(trialsCmd)
}

func runTrials(cmd *cobra.Command, args []string) {
	start := time.Now()
	logger := newLogger(trialsFormat)
	engine := mustGetEngine(logger)
	ctx := newContext()

	trials, err := engine.Trials(ctx, trialsAnimalID, trialsSession, trialsRemoveAborted)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing trials: %v\n", err)
		os.Exit(1)
	}

	response := &TrialsResponseCLI{
		AnimalID:   trialsAnimalID,
		Session:    trialsSession,
		Trials:     trials,
		TotalCount: len(trials),
	}

	output, err := FormatResponse(response, OutputFormat(trialsFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)

	logger.Debug("Trials query completed", map[string]interface{}{
		"count":    len(trials),
		"duration": time.Since(start).Milliseconds(),
	})
}

// TrialsResponseCLI contains the trial listing for CLI output
type TrialsResponseCLI struct {
	AnimalID   int           `json:"animalId"`
	Session    int           `json:"session"`
	Trials     []query.Trial `json:"trials"`
	TotalCount int           `json:"totalCount"`
}
