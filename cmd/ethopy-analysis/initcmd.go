package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ef-lab/ethopy-analysis/internal/config"
	"github.com/ef-lab/ethopy-analysis/internal/logging"
	"github.com/ef-lab/ethopy-analysis/internal/schemas"
	"github.com/ef-lab/ethopy-analysis/internal/storage"
)

var (
	initForce bool
	initDemo  bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Creates a .ethopy/ directory with default configuration and schema
declarations in the current directory. With --demo a seeded demo
database is created as well.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Force reinitialization (removes existing .ethopy directory)")
	initCmd.Flags().BoolVar(&initDemo, "demo", false, "Create a demo database with seeded data")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	logger := logging.NewLogger(logging.Config{
		Format: logging.HumanFormat,
		Level:  logging.InfoLevel,
	})

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	dir := filepath.Join(cwd, config.ConfigDirName)
	if _, statErr := os.Stat(dir); statErr == nil {
		if !initForce {
			// Idempotent behavior: already initialized is success
			fmt.Println("ethopy-analysis already initialized.")
			fmt.Printf("Configuration at: %s\n", filepath.Join(dir, "config.json"))
			fmt.Println("\nRun 'ethopy-analysis init --force' to reinitialize.")
			return nil
		}
		if removeErr := os.RemoveAll(dir); removeErr != nil {
			return fmt.Errorf("failed to remove existing %s directory: %w", config.ConfigDirName, removeErr)
		}
		logger.Info("Removed existing configuration directory", nil)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", config.ConfigDirName, err)
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(dir); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	declFile := &schemas.File{
		Version: 1,
		Experiment: []schemas.ClassDeclaration{
			{Class: "MatchToSample", Table: "cond_match_to_sample"},
		},
		Behavior: []schemas.ClassDeclaration{
			{Class: "MatchPort", Table: "cond_match_port"},
		},
		Stimulus: []schemas.ClassDeclaration{
			{Class: "Grating", Table: "cond_grating", Children: []string{"cond_grating_movie"}},
		},
	}
	if err := declFile.Save(dir); err != nil {
		return fmt.Errorf("failed to write schema declarations: %w", err)
	}

	if initDemo {
		db, err := storage.Create(cfg.Database.Path, logger)
		if err != nil {
			return fmt.Errorf("failed to create demo database: %w", err)
		}
		defer db.Close()
		if err := db.SeedDemo(); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
		fmt.Printf("Demo database created at: %s\n", cfg.Database.Path)
	}

	logger.Info("Initialized", map[string]interface{}{
		"config_path": filepath.Join(dir, "config.json"),
	})

	fmt.Println("ethopy-analysis initialized successfully!")
	fmt.Printf("Configuration written to: %s\n", filepath.Join(dir, "config.json"))
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'ethopy-analysis doctor' to check your setup")
	fmt.Println("  2. Run 'ethopy-analysis animals' to list animals")

	return nil
}
