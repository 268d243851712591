package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	summaryFormat   string
	summaryAnimalID int
	summarySession  int
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print a session summary",
	Long: `Print the full summary of one session: who ran it, where, how long it
lasted, the condition classes and task, performance, trial count, and
liquid delivered.

Examples:
  ethopy-analysis summary --animal-id=123 --session=5
  ethopy-analysis summary --animal-id=123 --session=5 --format=json`,
	Run: runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryFormat, "format", "human", "Output format (json, human)")
	summaryCmd.Flags().IntVar(&summaryAnimalID, "animal-id", 0, "Animal ID (required)")
	summaryCmd.Flags().IntVar(&summarySession, "session", 0, "Session number (required)")
	summaryCmd.MarkFlagRequired("animal-id")
	summaryCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) {
	logger := newLogger(summaryFormat)
	engine := mustGetEngine(logger)
	ctx := newContext()

	summary, err := engine.SessionSummaryInfo(ctx, summaryAnimalID, summarySession)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building summary: %v\n", err)
		os.Exit(1)
	}

	if OutputFormat(summaryFormat) == FormatHuman {
		fmt.Print(summary.Text())
		return
	}

	output, err := FormatResponse(summary, OutputFormat(summaryFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
