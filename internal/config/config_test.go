package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Database.Path == "" {
		t.Error("Database.Path should have a default")
	}
	if cfg.Logging.Format != "human" {
		t.Errorf("Logging.Format = %q, want human", cfg.Logging.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig with missing file: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("expected defaults, got version %d", cfg.Version)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Database.Path = "/data/lab7/ethopy.db"
	cfg.Paths.Output = "/tmp/figures"
	if err := cfg.Save(tmpDir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "config.json")); err != nil {
		t.Fatalf("config.json not written: %v", err)
	}

	loaded, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Database.Path != "/data/lab7/ethopy.db" {
		t.Errorf("Database.Path = %q", loaded.Database.Path)
	}
	if loaded.Paths.Output != "/tmp/figures" {
		t.Errorf("Paths.Output = %q", loaded.Paths.Output)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Version = 99
	if err := cfg.Validate(); err == nil {
		t.Error("unsupported version should fail validation")
	}

	cfg = DefaultConfig()
	cfg.Database.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty database path should fail validation")
	}
}
