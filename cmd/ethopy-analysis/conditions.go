package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ef-lab/ethopy-analysis/internal/export"
	"github.com/ef-lab/ethopy-analysis/internal/query"
)

var (
	conditionsFormat    string
	conditionsAnimalID  int
	conditionsSession   int
	conditionsKind      string
	conditionsStimClass string
)

var conditionsCmd = &cobra.Command{
	Use:   "conditions",
	Short: "Show trial condition parameters",
	Long: `Join the trials of a session against their condition parameters. The
columns depend on the condition class the session ran, resolved through
the schema declarations.

Examples:
  ethopy-analysis conditions --animal-id=123 --session=5 --kind=experiment
  ethopy-analysis conditions --animal-id=123 --session=5 --kind=stimulus --stim-class=Grating`,
	Run: runConditions,
}

func init() {
	conditionsCmd.Flags().StringVar(&conditionsFormat, "format", "human", "Output format (json, human)")
	conditionsCmd.Flags().IntVar(&conditionsAnimalID, "animal-id", 0, "Animal ID (required)")
	conditionsCmd.Flags().IntVar(&conditionsSession, "session", 0, "Session number (required)")
	conditionsCmd.Flags().StringVar(&conditionsKind, "kind", "experiment", "Condition kind: experiment, behavior, stimulus")
	conditionsCmd.Flags().StringVar(&conditionsStimClass, "stim-class", "", "Override the stimulus class (stimulus kind only)")
	conditionsCmd.MarkFlagRequired("animal-id")
	conditionsCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(conditionsCmd)
}

func runConditions(cmd *cobra.Command, args []string) {
	logger := newLogger(conditionsFormat)
	engine := mustGetEngine(logger)
	ctx := newContext()

	var result *query.ConditionResult
	var err error
	switch conditionsKind {
	case "experiment":
		result, err = engine.TrialExperiment(ctx, conditionsAnimalID, conditionsSession)
	case "behavior":
		result, err = engine.TrialBehavior(ctx, conditionsAnimalID, conditionsSession)
	case "stimulus":
		result, err = engine.TrialStimulus(ctx, conditionsAnimalID, conditionsSession, conditionsStimClass)
	default:
		fmt.Fprintf(os.Stderr, "Unknown --kind %q (supported: experiment, behavior, stimulus)\n", conditionsKind)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying conditions: %v\n", err)
		os.Exit(1)
	}

	table := export.ConditionTable(result)

	if OutputFormat(conditionsFormat) == FormatHuman {
		fmt.Printf("%s conditions for animal %d session %d (%d trials)\n\n",
			conditionsKind, conditionsAnimalID, conditionsSession, len(table.Rows))
		fmt.Println(strings.Join(table.Columns, "\t"))
		for _, row := range table.Rows {
			fmt.Println(strings.Join(row, "\t"))
		}
		return
	}

	if err := export.WriteJSON(os.Stdout, table); err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
}
