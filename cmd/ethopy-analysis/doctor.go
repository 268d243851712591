package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ef-lab/ethopy-analysis/internal/schemas"
	"github.com/ef-lab/ethopy-analysis/internal/storage"
)

var (
	doctorFormat string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose setup issues",
	Long: `Check that the database is reachable, the core tables exist, and the
schema declarations parse.

Examples:
  ethopy-analysis doctor
  ethopy-analysis doctor --format=json`,
	Run: runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) {
	logger := newLogger(doctorFormat)
	cfg := loadEffectiveConfig(logger)

	response := &DoctorResponseCLI{Healthy: true}
	addCheck := func(name, status, message string) {
		if status == "fail" {
			response.Healthy = false
		}
		response.Checks = append(response.Checks, DoctorCheckCLI{
			Name:    name,
			Status:  status,
			Message: message,
		})
	}

	// Database connectivity
	db, err := storage.Open(cfg.Database.Path, logger)
	if err != nil {
		addCheck("database", "fail", fmt.Sprintf("cannot open %s: %v", cfg.Database.Path, err))
	} else {
		defer db.Close()
		addCheck("database", "pass", fmt.Sprintf("opened %s", cfg.Database.Path))

		missing, err := db.MissingCoreTables()
		switch {
		case err != nil:
			addCheck("schema", "fail", fmt.Sprintf("cannot inspect tables: %v", err))
		case len(missing) > 0:
			addCheck("schema", "fail", fmt.Sprintf("missing tables: %s", strings.Join(missing, ", ")))
		default:
			addCheck("schema", "pass", fmt.Sprintf("all %d core tables present", len(storage.CoreTables)))
		}
	}

	// Schema declarations
	decls, err := schemas.LoadFile(cfg.Schemas.Path)
	if err != nil {
		addCheck("declarations", "fail", fmt.Sprintf("cannot load declarations: %v", err))
	} else {
		n := len(decls.Classes(schemas.Experiment)) +
			len(decls.Classes(schemas.Behavior)) +
			len(decls.Classes(schemas.Stimulus))
		addCheck("declarations", "pass", fmt.Sprintf("%d condition classes declared", n))
	}

	output, err := FormatResponse(response, OutputFormat(doctorFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)

	if !response.Healthy {
		os.Exit(1)
	}
}

// DoctorResponseCLI contains diagnostic results for CLI output
type DoctorResponseCLI struct {
	Healthy bool             `json:"healthy"`
	Checks  []DoctorCheckCLI `json:"checks"`
}

// DoctorCheckCLI is one diagnostic check result
type DoctorCheckCLI struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}
