package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ef-lab/ethopy-analysis/internal/query"
)

var (
	sessionsFormat    string
	sessionsAnimalID  int
	sessionsFromDate  string
	sessionsToDate    string
	sessionsMinTrials int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List sessions for an animal",
	Long: `List the non-excluded sessions of one animal, optionally restricted by
date range or a minimum trial count.

Examples:
  ethopy-analysis sessions --animal-id=123
  ethopy-analysis sessions --animal-id=123 --from-date=2024-01-01
  ethopy-analysis sessions --animal-id=123 --min-trials=30 --format=json`,
	Run: runSessions,
}

func init() {
	sessionsCmd.Flags().StringVar(&sessionsFormat, "format", "human", "Output format (json, human)")
	sessionsCmd.Flags().IntVar(&sessionsAnimalID, "animal-id", 0, "Animal ID (required)")
	sessionsCmd.Flags().StringVar(&sessionsFromDate, "from-date", "", "Only sessions after this date (YYYY-MM-DD)")
	sessionsCmd.Flags().StringVar(&sessionsToDate, "to-date", "", "Only sessions before this date (YYYY-MM-DD)")
	sessionsCmd.Flags().IntVar(&sessionsMinTrials, "min-trials", 0, "Only sessions with at least this many trials")
	sessionsCmd.MarkFlagRequired("animal-id")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) {
	start := time.Now()
	logger := newLogger(sessionsFormat)
	engine := mustGetEngine(logger)
	ctx := newContext()

	sessions, err := engine.Sessions(ctx, sessionsAnimalID, query.SessionsOptions{
		FromDate:  sessionsFromDate,
		ToDate:    sessionsToDate,
		MinTrials: sessionsMinTrials,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing sessions: %v\n", err)
		os.Exit(1)
	}

	response := &SessionsResponseCLI{
		AnimalID:   sessionsAnimalID,
		Sessions:   sessions,
		TotalCount: len(sessions),
	}

	output, err := FormatResponse(response, OutputFormat(sessionsFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)

	logger.Debug("Sessions query completed", map[string]interface{}{
		"animal_id": sessionsAnimalID,
		"count":     len(sessions),
		"duration":  time.Since(start).Milliseconds(),
	})
}

// SessionsResponseCLI contains the session listing for CLI output
type SessionsResponseCLI struct {
	AnimalID   int             `json:"animalId"`
	Sessions   []query.Session `json:"sessions"`
	TotalCount int             `json:"totalCount"`
}
