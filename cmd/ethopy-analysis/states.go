package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ef-lab/ethopy-analysis/internal/analysis"
	"github.com/ef-lab/ethopy-analysis/internal/query"
)

var (
	statesFormat   string
	statesAnimalID int
	statesSession  int
	statesAfter    string
)

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "List state onsets for a session",
	Long: `List the trial state machine onsets of a session in trial and time
order. With --after the command instead reports, per trial, the state
that followed the given state ("None" when the trial never reached it
or went Offtime).

Examples:
  ethopy-analysis states --animal-id=123 --session=5
  ethopy-analysis states --animal-id=123 --session=5 --after=Response`,
	Run: runStates,
}

func init() {
	statesCmd.Flags().StringVar(&statesFormat, "format", "human", "Output format (json, human)")
	statesCmd.Flags().IntVar(&statesAnimalID, "animal-id", 0, "Animal ID (required)")
	statesCmd.Flags().IntVar(&statesSession, "session", 0, "Session number (required)")
	statesCmd.Flags().StringVar(&statesAfter, "after", "", "Report the state following this one per trial")
	statesCmd.MarkFlagRequired("animal-id")
	statesCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(statesCmd)
}

func runStates(cmd *cobra.Command, args []string) {
	logger := newLogger(statesFormat)
	engine := mustGetEngine(logger)
	ctx := newContext()

	states, err := engine.TrialStates(ctx, statesAnimalID, statesSession)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing states: %v\n", err)
		os.Exit(1)
	}

	if statesAfter != "" {
		runNextStates(states)
		return
	}

	response := &StatesResponseCLI{
		AnimalID:   statesAnimalID,
		Session:    statesSession,
		States:     states,
		TotalCount: len(states),
	}

	output, err := FormatResponse(response, OutputFormat(statesFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

// runNextStates prints the state following --after for every trial.
func runNextStates(states []query.StateOnset) {
	byTrial := map[int][]string{}
	var order []int
	for _, s := range states {
		if _, ok := byTrial[s.TrialIdx]; !ok {
			order = append(order, s.TrialIdx)
		}
		byTrial[s.TrialIdx] = append(byTrial[s.TrialIdx], s.State)
	}

	response := &NextStatesResponseCLI{After: statesAfter}
	for _, trial := range order {
		response.Trials = append(response.Trials, NextStateCLI{
			TrialIdx: trial,
			Next:     analysis.NextState(byTrial[trial], statesAfter),
		})
	}

	output, err := FormatResponse(response, OutputFormat(statesFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

// NextStatesResponseCLI contains per-trial next-state results
type NextStatesResponseCLI struct {
	After  string         `json:"after"`
	Trials []NextStateCLI `json:"trials"`
}

// NextStateCLI is one trial's next-state result
type NextStateCLI struct {
	TrialIdx int    `json:"trialIdx"`
	Next     string `json:"next"`
}

// StatesResponseCLI contains the state-onset listing for CLI output
type StatesResponseCLI struct {
	AnimalID   int                `json:"animalId"`
	Session    int                `json:"session"`
	States     []query.StateOnset `json:"states"`
	TotalCount int                `json:"totalCount"`
}
