package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ef-lab/ethopy-analysis/internal/plots"
	"github.com/ef-lab/ethopy-analysis/internal/query"
)

var (
	compareAnimalIDs string
	compareMetric    string
	compareOutputDir string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare a metric across animals",
	Long: `Render one overlay figure comparing a per-session metric across
animals. Sessions are aligned by ordinal, so animals with different
session numbering still line up.

Examples:
  ethopy-analysis compare --animal-ids=1,2,3
  ethopy-analysis compare --animal-ids=1,2 --metric=performance`,
	Run: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareAnimalIDs, "animal-ids", "", "Comma-separated animal IDs (required)")
	compareCmd.Flags().StringVar(&compareMetric, "metric", "performance", "Metric to compare (performance)")
	compareCmd.Flags().StringVar(&compareOutputDir, "output-dir", "./output", "Directory for the comparison figure")
	compareCmd.MarkFlagRequired("animal-ids")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) {
	logger := newLogger("human")

	if compareMetric != "performance" {
		fmt.Fprintf(os.Stderr, "Unsupported metric %q (supported: performance)\n", compareMetric)
		os.Exit(1)
	}

	ids, err := parseIntList(compareAnimalIDs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing --animal-ids: %v\n", err)
		os.Exit(1)
	}
	if len(ids) < 2 {
		fmt.Fprintln(os.Stderr, "Need at least two animal IDs to compare")
		os.Exit(1)
	}

	engine := mustGetEngine(logger)
	ctx := newContext()

	var series []plots.AnimalSeries
	for _, id := range ids {
		sessions, err := engine.Sessions(ctx, id, query.SessionsOptions{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing sessions for animal %d: %v\n", id, err)
			os.Exit(1)
		}
		var perfs []float64
		for _, s := range sessions {
			perf, err := engine.Performance(ctx, id, s.Session, nil)
			if err != nil {
				continue
			}
			perfs = append(perfs, perf)
		}
		if len(perfs) == 0 {
			logger.Warn("No performance data for animal", map[string]interface{}{
				"animal_id": id,
			})
			continue
		}
		series = append(series, plots.AnimalSeries{AnimalID: id, Perfs: perfs})
	}

	if err := os.MkdirAll(compareOutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	path := filepath.Join(compareOutputDir, "animal_comparison.png")
	saved := savePlot(plots.AnimalComparison(series, path))
	if len(saved) == 0 {
		fmt.Fprintln(os.Stderr, "No data to compare")
		os.Exit(1)
	}
	fmt.Printf("Saved %s\n", saved[0])
}
