package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	performanceFormat   string
	performanceAnimalID int
	performanceSession  int
	performanceTrials   string
)

var performanceCmd = &cobra.Command{
	Use:   "performance",
	Short: "Compute session performance",
	Long: `Compute the reward/(reward+punish) ratio over a session's decisive
trials, optionally restricted to a trial list.

Examples:
  ethopy-analysis performance --animal-id=123 --session=5
  ethopy-analysis performance --animal-id=123 --session=5 --trials=1,2,3`,
	Run: runPerformance,
}

func init() {
	performanceCmd.Flags().StringVar(&performanceFormat, "format", "human", "Output format (json, human)")
	performanceCmd.Flags().IntVar(&performanceAnimalID, "animal-id", 0, "Animal ID (required)")
	performanceCmd.Flags().IntVar(&performanceSession, "session", 0, "Session number (required)")
	performanceCmd.Flags().StringVar(&performanceTrials, "trials", "", "Comma-separated trial indexes to restrict to")
	performanceCmd.MarkFlagRequired("animal-id")
	performanceCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(performanceCmd)
}

// parseIntList parses a comma-separated list of integers.
func parseIntList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}

func runPerformance(cmd *cobra.Command, args []string) {
	logger := newLogger(performanceFormat)

	trials, err := parseIntList(performanceTrials)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing --trials: %v\n", err)
		os.Exit(1)
	}

	engine := mustGetEngine(logger)
	ctx := newContext()

	perf, err := engine.Performance(ctx, performanceAnimalID, performanceSession, trials)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing performance: %v\n", err)
		os.Exit(1)
	}

	response := &PerformanceResponseCLI{
		AnimalID:    performanceAnimalID,
		Session:     performanceSession,
		Trials:      trials,
		Performance: perf,
	}

	output, err := FormatResponse(response, OutputFormat(performanceFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

// PerformanceResponseCLI contains the performance result for CLI output
type PerformanceResponseCLI struct {
	AnimalID    int     `json:"animalId"`
	Session     int     `json:"session"`
	Trials      []int   `json:"trials,omitempty"`
	Performance float64 `json:"performance"`
}
