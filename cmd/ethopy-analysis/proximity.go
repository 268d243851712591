package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ef-lab/ethopy-analysis/internal/query"
)

var (
	proximityFormat   string
	proximityAnimalID int
	proximitySession  int
	proximityPorts    string
)

var proximityCmd = &cobra.Command{
	Use:   "proximity",
	Short: "List proximity events for a session",
	Long: `List the proximity sensor transitions of a session, optionally
restricted to specific ports.

Examples:
  ethopy-analysis proximity --animal-id=123 --session=5
  ethopy-analysis proximity --animal-id=123 --session=5 --ports=1,2`,
	Run: runProximity,
}

func init() {
	proximityCmd.Flags().StringVar(&proximityFormat, "format", "human", "Output format (json, human)")
	proximityCmd.Flags().IntVar(&proximityAnimalID, "animal-id", 0, "Animal ID (required)")
	proximityCmd.Flags().IntVar(&proximitySession, "session", 0, "Session number (required)")
	proximityCmd.Flags().StringVar(&proximityPorts, "ports", "", "Comma-separated ports to include")
	proximityCmd.MarkFlagRequired("animal-id")
	proximityCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(proximityCmd)
}

func runProximity(cmd *cobra.Command, args []string) {
	logger := newLogger(proximityFormat)

	ports, err := parseIntList(proximityPorts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing --ports: %v\n", err)
		os.Exit(1)
	}

	engine := mustGetEngine(logger)
	ctx := newContext()

	events, err := engine.TrialProximities(ctx, proximityAnimalID, proximitySession, ports)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing proximity events: %v\n", err)
		os.Exit(1)
	}

	response := &ProximityResponseCLI{
		AnimalID:   proximityAnimalID,
		Session:    proximitySession,
		Events:     events,
		TotalCount: len(events),
	}

	output, err := FormatResponse(response, OutputFormat(proximityFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

// ProximityResponseCLI contains the proximity listing for CLI output
type ProximityResponseCLI struct {
	AnimalID   int               `json:"animalId"`
	Session    int               `json:"session"`
	Events     []query.Proximity `json:"events"`
	TotalCount int               `json:"totalCount"`
}
