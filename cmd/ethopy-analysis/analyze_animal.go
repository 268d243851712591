package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ef-lab/ethopy-analysis/internal/plots"
	"github.com/ef-lab/ethopy-analysis/internal/query"
)

var (
	analyzeAnimalID        int
	analyzeAnimalFromDate  string
	analyzeAnimalToDate    string
	analyzeAnimalMinTrials int
	analyzeAnimalOutputDir string
	analyzeAnimalSavePlots bool
)

var analyzeAnimalCmd = &cobra.Command{
	Use:   "analyze-animal",
	Short: "Analyze an animal across sessions",
	Long: `Compute per-session performance for one animal and render the
performance, sessions-per-date, and trials-per-session figures.

Examples:
  ethopy-analysis analyze-animal --animal-id=123
  ethopy-analysis analyze-animal --animal-id=123 --save-plots --output-dir=./output`,
	Run: runAnalyzeAnimal,
}

func init() {
	analyzeAnimalCmd.Flags().IntVar(&analyzeAnimalID, "animal-id", 0, "Animal ID (required)")
	analyzeAnimalCmd.Flags().StringVar(&analyzeAnimalFromDate, "from-date", "", "Only sessions after this date (YYYY-MM-DD)")
	analyzeAnimalCmd.Flags().StringVar(&analyzeAnimalToDate, "to-date", "", "Only sessions before this date (YYYY-MM-DD)")
	analyzeAnimalCmd.Flags().IntVar(&analyzeAnimalMinTrials, "min-trials", 0, "Only sessions with at least this many trials")
	analyzeAnimalCmd.Flags().StringVar(&analyzeAnimalOutputDir, "output-dir", "./output", "Directory for generated figures")
	analyzeAnimalCmd.Flags().BoolVar(&analyzeAnimalSavePlots, "save-plots", false, "Write figures to the output directory")
	analyzeAnimalCmd.MarkFlagRequired("animal-id")
	rootCmd.AddCommand(analyzeAnimalCmd)
}

func runAnalyzeAnimal(cmd *cobra.Command, args []string) {
	logger := newLogger("human")
	engine := mustGetEngine(logger)
	ctx := newContext()

	sessions, err := engine.Sessions(ctx, analyzeAnimalID, query.SessionsOptions{
		FromDate:  analyzeAnimalFromDate,
		ToDate:    analyzeAnimalToDate,
		MinTrials: analyzeAnimalMinTrials,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing sessions: %v\n", err)
		os.Exit(1)
	}
	if len(sessions) == 0 {
		fmt.Fprintf(os.Stderr, "No sessions found for animal %d\n", analyzeAnimalID)
		os.Exit(1)
	}

	fmt.Printf("Animal %d: %d sessions\n\n", analyzeAnimalID, len(sessions))

	var points []plots.PerfPoint
	var perfSessions []int
	var perfs, liquids []float64
	for _, s := range sessions {
		perf, err := engine.Performance(ctx, analyzeAnimalID, s.Session, nil)
		if err != nil {
			fmt.Printf("  session %d: %s (performance n/a)\n", s.Session, s.Tmst)
			continue
		}

		task := ""
		if info, err := engine.SessionTask(ctx, analyzeAnimalID, s.Session); err == nil {
			task = info.Filename
		}
		fmt.Printf("  session %d: %s performance %.3f", s.Session, s.Tmst, perf)
		if task != "" {
			fmt.Printf(" (%s)", task)
		}
		fmt.Println()

		points = append(points, plots.PerfPoint{Session: s.Session, Performance: perf, Task: task})
		liquid, err := engine.LiquidDelivered(ctx, analyzeAnimalID, s.Session)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error querying liquid: %v\n", err)
			os.Exit(1)
		}
		perfSessions = append(perfSessions, s.Session)
		perfs = append(perfs, perf)
		liquids = append(liquids, liquid)
	}

	if !analyzeAnimalSavePlots {
		return
	}
	if err := os.MkdirAll(analyzeAnimalOutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	prefix := fmt.Sprintf("animal_%d_", analyzeAnimalID)
	saved := savePlot(plots.SessionPerformance(points, analyzeAnimalID,
		filepath.Join(analyzeAnimalOutputDir, prefix+"performance.png")))

	dates, err := engine.SessionsPerDate(ctx, analyzeAnimalID, analyzeAnimalMinTrials)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying session dates: %v\n", err)
		os.Exit(1)
	}
	saved = append(saved, savePlot(plots.SessionsPerDate(dates, analyzeAnimalID,
		filepath.Join(analyzeAnimalOutputDir, prefix+"sessions_per_date.png")))...)

	counts, err := engine.TrialsPerSession(ctx, analyzeAnimalID, analyzeAnimalMinTrials)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying trial counts: %v\n", err)
		os.Exit(1)
	}
	saved = append(saved, savePlot(plots.TrialsPerSession(counts,
		filepath.Join(analyzeAnimalOutputDir, prefix+"trials_per_session.png")))...)

	saved = append(saved, savePlot(plots.PerformanceLiquid(perfSessions, perfs, liquids,
		filepath.Join(analyzeAnimalOutputDir, prefix+"performance_liquid.png")))...)

	fmt.Println()
	for _, path := range saved {
		fmt.Printf("Saved %s\n", path)
	}
}

// savePlot folds a renderer result into a path list, tolerating empty
// datasets and failing hard on real render errors.
func savePlot(path string, err error) []string {
	if err != nil {
		if errors.Is(err, plots.ErrNoData) {
			return nil
		}
		fmt.Fprintf(os.Stderr, "Error rendering plot: %v\n", err)
		os.Exit(1)
	}
	return []string{path}
}
