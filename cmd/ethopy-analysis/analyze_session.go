package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ef-lab/ethopy-analysis/internal/plots"
)

var (
	analyzeSessionAnimalID  int
	analyzeSessionNumber    int
	analyzeSessionLicking   bool
	analyzeSessionProximity bool
	analyzeSessionOutputDir string
	analyzeSessionSavePlots bool
)

var analyzeSessionCmd = &cobra.Command{
	Use:   "analyze-session",
	Short: "Analyze a single session",
	Long: `Print the session summary and optionally render lick raster and
proximity trace figures for it.

Examples:
  ethopy-analysis analyze-session --animal-id=123 --session=5
  ethopy-analysis analyze-session --animal-id=123 --session=5 \
    --include-licking --include-proximity --save-plots`,
	Run: runAnalyzeSession,
}

func init() {
	analyzeSessionCmd.Flags().IntVar(&analyzeSessionAnimalID, "animal-id", 0, "Animal ID (required)")
	analyzeSessionCmd.Flags().IntVar(&analyzeSessionNumber, "session", 0, "Session number (required)")
	analyzeSessionCmd.Flags().BoolVar(&analyzeSessionLicking, "include-licking", false, "Render the lick raster")
	analyzeSessionCmd.Flags().BoolVar(&analyzeSessionProximity, "include-proximity", false, "Render the proximity trace")
	analyzeSessionCmd.Flags().StringVar(&analyzeSessionOutputDir, "output-dir", "./output", "Directory for generated figures")
	analyzeSessionCmd.Flags().BoolVar(&analyzeSessionSavePlots, "save-plots", false, "Write figures to the output directory")
	analyzeSessionCmd.MarkFlagRequired("animal-id")
	analyzeSessionCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(analyzeSessionCmd)
}

func runAnalyzeSession(cmd *cobra.Command, args []string) {
	logger := newLogger("human")
	engine := mustGetEngine(logger)
	ctx := newContext()

	summary, err := engine.SessionSummaryInfo(ctx, analyzeSessionAnimalID, analyzeSessionNumber)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building summary: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(summary.Text())

	if !analyzeSessionSavePlots {
		return
	}
	if err := os.MkdirAll(analyzeSessionOutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	prefix := fmt.Sprintf("animal_%d_session_%d_", analyzeSessionAnimalID, analyzeSessionNumber)
	var saved []string

	if analyzeSessionLicking {
		licks, err := engine.TrialLicks(ctx, analyzeSessionAnimalID, analyzeSessionNumber)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error querying licks: %v\n", err)
			os.Exit(1)
		}
		saved = append(saved, savePlot(plots.LickRaster(licks, analyzeSessionAnimalID, analyzeSessionNumber,
			filepath.Join(analyzeSessionOutputDir, prefix+"licks.png")))...)
	}

	if analyzeSessionProximity {
		events, err := engine.TrialProximities(ctx, analyzeSessionAnimalID, analyzeSessionNumber, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error querying proximity events: %v\n", err)
			os.Exit(1)
		}
		saved = append(saved, savePlot(plots.ProximityTrace(events, analyzeSessionAnimalID, analyzeSessionNumber,
			filepath.Join(analyzeSessionOutputDir, prefix+"proximity.png")))...)
	}

	if len(saved) > 0 {
		fmt.Println()
		for _, path := range saved {
			fmt.Printf("Saved %s\n", path)
		}
	}
}
