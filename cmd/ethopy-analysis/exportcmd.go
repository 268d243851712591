package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ef-lab/ethopy-analysis/internal/export"
)

var (
	exportAnimalID int
	exportSession  int
	exportWhat     string
	exportOut      string
	exportFormat   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export session data as CSV or JSON",
	Long: `Export one kind of session data (trials, states, licks, proximity) to
a file or stdout.

Examples:
  ethopy-analysis export --animal-id=123 --session=5 --what=trials --out=trials.csv
  ethopy-analysis export --animal-id=123 --session=5 --what=licks --format=json`,
	Run: runExport,
}

func init() {
	exportCmd.Flags().IntVar(&exportAnimalID, "animal-id", 0, "Animal ID (required)")
	exportCmd.Flags().IntVar(&exportSession, "session", 0, "Session number (required)")
	exportCmd.Flags().StringVar(&exportWhat, "what", "", "Data to export: trials, states, licks, proximity, rewards (required)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default stdout)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format (csv, json)")
	exportCmd.MarkFlagRequired("animal-id")
	exportCmd.MarkFlagRequired("session")
	exportCmd.MarkFlagRequired("what")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	logger := newLogger(exportFormat)
	engine := mustGetEngine(logger)
	ctx := newContext()

	var table *export.Table
	switch exportWhat {
	case "trials":
		trials, err := engine.Trials(ctx, exportAnimalID, exportSession, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error querying trials: %v\n", err)
			os.Exit(1)
		}
		table = export.TrialsTable(trials)
	case "states":
		states, err := engine.TrialStates(ctx, exportAnimalID, exportSession)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error querying states: %v\n", err)
			os.Exit(1)
		}
		table = export.StatesTable(states)
	case "licks":
		licks, err := engine.TrialLicks(ctx, exportAnimalID, exportSession)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error querying licks: %v\n", err)
			os.Exit(1)
		}
		table = export.LicksTable(licks)
	case "proximity":
		events, err := engine.TrialProximities(ctx, exportAnimalID, exportSession, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error querying proximity events: %v\n", err)
			os.Exit(1)
		}
		table = export.ProximitiesTable(events)
	case "rewards":
		rewards, err := engine.SessionRewards(ctx, exportAnimalID, exportSession)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error querying rewards: %v\n", err)
			os.Exit(1)
		}
		table = export.RewardsTable(rewards)
	default:
		fmt.Fprintf(os.Stderr, "Unknown --what %q (supported: trials, states, licks, proximity, rewards)\n", exportWhat)
		os.Exit(1)
	}

	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	var err error
	switch exportFormat {
	case "csv":
		err = export.WriteCSV(w, table)
	case "json":
		err = export.WriteJSON(w, table)
	default:
		fmt.Fprintf(os.Stderr, "Unknown --format %q (supported: csv, json)\n", exportFormat)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing export: %v\n", err)
		os.Exit(1)
	}

	if exportOut != "" {
		logger.Info("Export written", map[string]interface{}{
			"what": exportWhat,
			"rows": len(table.Rows),
			"path": exportOut,
		})
	}
}
