package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/ef-lab/ethopy-analysis/internal/config"
	"github.com/ef-lab/ethopy-analysis/internal/logging"
	"github.com/ef-lab/ethopy-analysis/internal/query"
	"github.com/ef-lab/ethopy-analysis/internal/schemas"
	"github.com/ef-lab/ethopy-analysis/internal/storage"
)

var (
	engineOnce   sync.Once
	sharedEngine *query.Engine
	engineErr    error
)

// loadEffectiveConfig loads configuration honoring the --config and --db
// flags. Flags beat the config file.
func loadEffectiveConfig(logger *logging.Logger) *config.Config {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		logger.Warn("Failed to load config, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		cfg = config.DefaultConfig()
	}
	if dbFlag != "" {
		cfg.Database.Path = dbFlag
	}
	return cfg
}

// getEngine returns a shared query engine, lazily initialized on first use.
func getEngine(logger *logging.Logger) (*query.Engine, error) {
	engineOnce.Do(func() {
		cfg := loadEffectiveConfig(logger)

		decls, err := schemas.LoadFile(cfg.Schemas.Path)
		if err != nil {
			engineErr = fmt.Errorf("failed to load schema declarations: %w", err)
			return
		}

		db, err := storage.Open(cfg.Database.Path, logger)
		if err != nil {
			engineErr = fmt.Errorf("failed to open database: %w", err)
			return
		}

		sharedEngine = query.NewEngine(db, decls, logger, cfg)
	})

	return sharedEngine, engineErr
}

// mustGetEngine returns the shared query engine or exits on error.
func mustGetEngine(logger *logging.Logger) *query.Engine {
	engine, err := getEngine(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing engine: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'ethopy-analysis init --demo' to create a demo database.")
		os.Exit(1)
	}
	return engine
}

// newContext creates a new context for command execution.
func newContext() context.Context {
	return context.Background()
}

// newLogger creates a logger matching the command's output format.
func newLogger(format string) *logging.Logger {
	logFormat := logging.HumanFormat
	if format == "json" {
		logFormat = logging.JSONFormat
	}
	level := logging.InfoLevel
	if verboseFlag {
		level = logging.DebugLevel
	}
	return logging.NewLogger(logging.Config{
		Format: logFormat,
		Level:  level,
	})
}
