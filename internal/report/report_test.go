package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ef-lab/ethopy-analysis/internal/config"
	"github.com/ef-lab/ethopy-analysis/internal/logging"
	"github.com/ef-lab/ethopy-analysis/internal/query"
	"github.com/ef-lab/ethopy-analysis/internal/schemas"
	"github.com/ef-lab/ethopy-analysis/internal/storage"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()

	logger := logging.NewLogger(logging.Config{
		Format: logging.JSONFormat,
		Level:  logging.ErrorLevel,
	})
	dbPath := filepath.Join(t.TempDir(), "ethopy.db")
	db, err := storage.Create(dbPath, logger)
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.SeedDemo(); err != nil {
		t.Fatalf("failed to seed demo data: %v", err)
	}

	engine := query.NewEngine(db, schemas.Defaults(), logger, config.DefaultConfig())
	return NewGenerator(engine, logger)
}

func TestGenerateReport(t *testing.T) {
	gen := newTestGenerator(t)
	outDir := t.TempDir()

	result, err := gen.Generate(context.Background(), Options{
		AnimalID:  1,
		OutputDir: outDir,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	wantDir := filepath.Join(outDir, "animal_1_report")
	if result.Dir != wantDir {
		t.Errorf("expected report dir %s, got %s", wantDir, result.Dir)
	}
	if result.ArchivePath != "" {
		t.Errorf("expected no archive, got %s", result.ArchivePath)
	}

	for _, name := range []string{"summary.txt", ManifestFile, "performance.png", "sessions_timeline.png", "trials_per_session.png"} {
		info, err := os.Stat(filepath.Join(result.Dir, name))
		if err != nil {
			t.Errorf("expected %s in report dir: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	m := result.Manifest
	if m.RunID == "" {
		t.Error("expected a run id")
	}
	if m.AnimalID != 1 {
		t.Errorf("expected animal 1 in manifest, got %d", m.AnimalID)
	}
	if m.GeneratedAt == "" {
		t.Error("expected a generation timestamp")
	}
	if len(m.Plots) != 3 {
		t.Errorf("expected 3 plots in manifest, got %v", m.Plots)
	}
	if m.Stats.SessionCount != 3 {
		t.Errorf("expected 3 sessions, got %d", m.Stats.SessionCount)
	}
	if m.Stats.TotalTrials != 30 {
		t.Errorf("expected 30 trials, got %d", m.Stats.TotalTrials)
	}
	if m.Stats.MeanPerformance <= 0 || m.Stats.MeanPerformance > 1 {
		t.Errorf("mean performance out of range: %f", m.Stats.MeanPerformance)
	}
	if m.Stats.BestPerformance < m.Stats.MeanPerformance {
		t.Errorf("best %f below mean %f", m.Stats.BestPerformance, m.Stats.MeanPerformance)
	}
}

func TestGenerateReportArchive(t *testing.T) {
	gen := newTestGenerator(t)
	outDir := t.TempDir()

	result, err := gen.Generate(context.Background(), Options{
		AnimalID:  2,
		OutputDir: outDir,
		Archive:   true,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	wantArchive := filepath.Join(outDir, "animal_2_report.tar.zst")
	if result.ArchivePath != wantArchive {
		t.Errorf("expected archive %s, got %s", wantArchive, result.ArchivePath)
	}
	info, err := os.Stat(result.ArchivePath)
	if err != nil {
		t.Fatalf("archive missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("archive is empty")
	}
}

func TestGenerateReportNoSessions(t *testing.T) {
	gen := newTestGenerator(t)

	_, err := gen.Generate(context.Background(), Options{
		AnimalID:  99,
		OutputDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected error for unknown animal")
	}
}

func TestReadManifest(t *testing.T) {
	gen := newTestGenerator(t)
	outDir := t.TempDir()

	result, err := gen.Generate(context.Background(), Options{AnimalID: 1, OutputDir: outDir})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	m, err := ReadManifest(result.Dir)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}
	if m.RunID != result.Manifest.RunID {
		t.Errorf("run id mismatch: %s vs %s", m.RunID, result.Manifest.RunID)
	}
	if m.Stats.SessionCount != result.Manifest.Stats.SessionCount {
		t.Errorf("session count mismatch")
	}
}
