package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ef-lab/ethopy-analysis/internal/query"
)

var (
	animalsFormat string
)

var animalsCmd = &cobra.Command{
	Use:   "animals",
	Short: "List animals present in the database",
	Long: `List every animal with at least one non-excluded session, with session
counts and first/last session timestamps.

Examples:
  ethopy-analysis animals
  ethopy-analysis animals --format=json`,
	Run: runAnimals,
}

func init() {
	animalsCmd.Flags().StringVar(&animalsFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(animalsCmd)
}

func runAnimals(cmd *cobra.Command, args []string) {
	start := time.Now()
	logger := newLogger(animalsFormat)
	engine := mustGetEngine(logger)
	ctx := newContext()

	animals, err := engine.ListAnimals(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing animals: %v\n", err)
		os.Exit(1)
	}

	response := &AnimalsResponseCLI{
		Animals:    animals,
		TotalCount: len(animals),
	}

	output, err := FormatResponse(response, OutputFormat(animalsFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)

	logger.Debug("Animals query completed", map[string]interface{}{
		"count":    len(animals),
		"duration": time.Since(start).Milliseconds(),
	})
}

// AnimalsResponseCLI contains the animal listing for CLI output
type AnimalsResponseCLI struct {
	Animals    []query.Animal `json:"animals"`
	TotalCount int            `json:"totalCount"`
}
