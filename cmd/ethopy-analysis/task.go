package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ef-lab/ethopy-analysis/internal/query"
)

var (
	taskFormat   string
	taskAnimalID int
	taskSession  int
	taskSave     bool
	taskOutDir   string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Show or save the task file of a session",
	Long: `Show the task recorded for a session. With --save the stored task file
is written out, suffixed with the animal and session.

Examples:
  ethopy-analysis task --animal-id=123 --session=5
  ethopy-analysis task --animal-id=123 --session=5 --save --output-dir=./tasks`,
	Run: runTask,
}

func init() {
	taskCmd.Flags().StringVar(&taskFormat, "format", "human", "Output format (json, human)")
	taskCmd.Flags().IntVar(&taskAnimalID, "animal-id", 0, "Animal ID (required)")
	taskCmd.Flags().IntVar(&taskSession, "session", 0, "Session number (required)")
	taskCmd.Flags().BoolVar(&taskSave, "save", false, "Write the task file to disk")
	taskCmd.Flags().StringVar(&taskOutDir, "output-dir", ".", "Directory to save the task file into")
	taskCmd.MarkFlagRequired("animal-id")
	taskCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(taskCmd)
}

func runTask(cmd *cobra.Command, args []string) {
	logger := newLogger(taskFormat)
	engine := mustGetEngine(logger)
	ctx := newContext()

	info, err := engine.SessionTask(ctx, taskAnimalID, taskSession)
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "No task recorded for animal %d session %d\n", taskAnimalID, taskSession)
		} else {
			fmt.Fprintf(os.Stderr, "Error fetching task: %v\n", err)
		}
		os.Exit(1)
	}

	response := &TaskResponseCLI{
		AnimalID: taskAnimalID,
		Session:  taskSession,
		TaskName: info.TaskName,
		Filename: info.Filename,
		GitHash:  info.GitHash,
	}

	if taskSave {
		path, err := engine.SaveTaskFile(ctx, taskAnimalID, taskSession, taskOutDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error saving task file: %v\n", err)
			os.Exit(1)
		}
		response.SavedTo = path
	}

	output, err := FormatResponse(response, OutputFormat(taskFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

// TaskResponseCLI contains the session task details for CLI output
type TaskResponseCLI struct {
	AnimalID int    `json:"animalId"`
	Session  int    `json:"session"`
	TaskName string `json:"taskName"`
	Filename string `json:"filename"`
	GitHash  string `json:"gitHash"`
	SavedTo  string `json:"savedTo,omitempty"`
}
