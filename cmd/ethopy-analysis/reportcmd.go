package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ef-lab/ethopy-analysis/internal/report"
)

var (
	reportAnimalID  int
	reportFromDate  string
	reportToDate    string
	reportOutputDir string
	reportArchive   bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a per-animal report bundle",
	Long: `Generate a report directory animal_<id>_report/ containing figures,
summary.txt, and a report.yaml manifest. With --archive the directory is
additionally packed into animal_<id>_report.tar.zst.

Examples:
  ethopy-analysis report --animal-id=123
  ethopy-analysis report --animal-id=123 --from-date=2024-01-01 --archive`,
	Run: runReport,
}

func init() {
	reportCmd.Flags().IntVar(&reportAnimalID, "animal-id", 0, "Animal ID (required)")
	reportCmd.Flags().StringVar(&reportFromDate, "from-date", "", "Only sessions after this date (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportToDate, "to-date", "", "Only sessions before this date (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportOutputDir, "output-dir", "./reports", "Directory to create the report in")
	reportCmd.Flags().BoolVar(&reportArchive, "archive", false, "Also write a tar.zst archive of the report")
	reportCmd.MarkFlagRequired("animal-id")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) {
	logger := newLogger("human")
	engine := mustGetEngine(logger)
	ctx := newContext()

	gen := report.NewGenerator(engine, logger)
	result, err := gen.Generate(ctx, report.Options{
		AnimalID:  reportAnimalID,
		FromDate:  reportFromDate,
		ToDate:    reportToDate,
		OutputDir: reportOutputDir,
		Archive:   reportArchive,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Report written to %s\n", result.Dir)
	fmt.Printf("Run ID: %s\n", result.Manifest.RunID)
	fmt.Printf("Sessions: %d, trials: %d, mean performance: %.3f\n",
		result.Manifest.Stats.SessionCount,
		result.Manifest.Stats.TotalTrials,
		result.Manifest.Stats.MeanPerformance)
	if result.ArchivePath != "" {
		fmt.Printf("Archive written to %s\n", result.ArchivePath)
	}
}
