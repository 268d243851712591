// Package report assembles per-animal analysis reports: figures, a text
// summary, and a YAML manifest, optionally packed into a tar.zst archive.
package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ef-lab/ethopy-analysis/internal/logging"
	"github.com/ef-lab/ethopy-analysis/internal/plots"
	"github.com/ef-lab/ethopy-analysis/internal/query"
)

// ManifestFile is the manifest filename inside a report directory.
const ManifestFile = "report.yaml"

// Options control report generation
type Options struct {
	AnimalID  int
	FromDate  string
	ToDate    string
	OutputDir string
	Archive   bool
}

// Stats summarizes the sessions covered by a report
type Stats struct {
	SessionCount    int     `yaml:"sessionCount"`
	TotalTrials     int     `yaml:"totalTrials"`
	MeanPerformance float64 `yaml:"meanPerformance"`
	BestPerformance float64 `yaml:"bestPerformance"`
}

// Manifest records what a report run produced
type Manifest struct {
	RunID       string   `yaml:"runId"`
	AnimalID    int      `yaml:"animalId"`
	GeneratedAt string   `yaml:"generatedAt"`
	FromDate    string   `yaml:"fromDate,omitempty"`
	ToDate      string   `yaml:"toDate,omitempty"`
	Plots       []string `yaml:"plots"`
	Stats       Stats    `yaml:"stats"`
}

// Result points at everything a report run wrote
type Result struct {
	Dir         string
	ArchivePath string
	Manifest    Manifest
}

// Generator renders reports from the query engine
type Generator struct {
	engine *query.Engine
	logger *logging.Logger
}

// NewGenerator creates a report generator.
func NewGenerator(engine *query.Engine, logger *logging.Logger) *Generator {
	return &Generator{engine: engine, logger: logger}
}

// Generate builds the report directory for one animal.
func (g *Generator) Generate(ctx context.Context, opts Options) (*Result, error) {
	sessions, err := g.engine.Sessions(ctx, opts.AnimalID, query.SessionsOptions{
		FromDate: opts.FromDate,
		ToDate:   opts.ToDate,
	})
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("no sessions found for animal %d", opts.AnimalID)
	}

	dir := filepath.Join(opts.OutputDir, fmt.Sprintf("animal_%d_report", opts.AnimalID))
	if prev, err := ReadManifest(dir); err == nil {
		g.logger.Info("Replacing previous report", map[string]interface{}{
			"previous_run": prev.RunID,
			"generated_at": prev.GeneratedAt,
		})
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	manifest := Manifest{
		RunID:       uuid.New().String(),
		AnimalID:    opts.AnimalID,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		FromDate:    opts.FromDate,
		ToDate:      opts.ToDate,
	}

	points, stats := g.collect(ctx, opts.AnimalID, sessions)
	manifest.Stats = stats

	if path, err := plots.SessionPerformance(points, opts.AnimalID, filepath.Join(dir, "performance.png")); err == nil {
		manifest.Plots = append(manifest.Plots, filepath.Base(path))
	} else if !errors.Is(err, plots.ErrNoData) {
		return nil, err
	}

	dates, err := g.engine.SessionsPerDate(ctx, opts.AnimalID, 0)
	if err != nil {
		return nil, err
	}
	if path, err := plots.SessionsPerDate(dates, opts.AnimalID, filepath.Join(dir, "sessions_timeline.png")); err == nil {
		manifest.Plots = append(manifest.Plots, filepath.Base(path))
	} else if !errors.Is(err, plots.ErrNoData) {
		return nil, err
	}

	counts, err := g.engine.TrialsPerSession(ctx, opts.AnimalID, 0)
	if err != nil {
		return nil, err
	}
	if path, err := plots.TrialsPerSession(counts, filepath.Join(dir, "trials_per_session.png")); err == nil {
		manifest.Plots = append(manifest.Plots, filepath.Base(path))
	} else if !errors.Is(err, plots.ErrNoData) {
		return nil, err
	}

	if err := g.writeSummary(dir, manifest); err != nil {
		return nil, err
	}
	if err := writeManifest(dir, manifest); err != nil {
		return nil, err
	}

	result := &Result{Dir: dir, Manifest: manifest}

	if opts.Archive {
		archivePath := dir + ".tar.zst"
		if err := ArchiveDir(dir, archivePath); err != nil {
			return nil, err
		}
		result.ArchivePath = archivePath
	}

	g.logger.Info("Report generated", map[string]interface{}{
		"animal_id": opts.AnimalID,
		"dir":       dir,
		"plots":     len(manifest.Plots),
	})
	return result, nil
}

// collect gathers per-session performance points and aggregate stats.
// Sessions without decisive trials are skipped, not fatal.
func (g *Generator) collect(ctx context.Context, animalID int, sessions []query.Session) ([]plots.PerfPoint, Stats) {
	stats := Stats{SessionCount: len(sessions)}

	var points []plots.PerfPoint
	var sum float64
	for _, s := range sessions {
		perf, err := g.engine.Performance(ctx, animalID, s.Session, nil)
		if err != nil {
			continue
		}

		task := ""
		if info, err := g.engine.SessionTask(ctx, animalID, s.Session); err == nil {
			task = info.Filename
		}
		points = append(points, plots.PerfPoint{
			Session:     s.Session,
			Performance: perf,
			Task:        task,
		})
		sum += perf
		if perf > stats.BestPerformance {
			stats.BestPerformance = perf
		}
	}
	if len(points) > 0 {
		stats.MeanPerformance = sum / float64(len(points))
	}

	if counts, err := g.engine.TrialsPerSession(ctx, animalID, 0); err == nil {
		for _, c := range counts {
			stats.TotalTrials += c.TrialCount
		}
	}
	return points, stats
}

func (g *Generator) writeSummary(dir string, m Manifest) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Ethopy Analysis Report - Animal %d\n", m.AnimalID)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&b, "Total sessions analyzed: %d\n", m.Stats.SessionCount)
	fmt.Fprintf(&b, "Total trials: %d\n", m.Stats.TotalTrials)
	fmt.Fprintf(&b, "Average performance: %.3f\n", m.Stats.MeanPerformance)
	fmt.Fprintf(&b, "Best session performance: %.3f\n", m.Stats.BestPerformance)
	fmt.Fprintf(&b, "\nPlots generated: %d\n", len(m.Plots))
	fmt.Fprintf(&b, "Report location: %s\n", dir)

	return os.WriteFile(filepath.Join(dir, "summary.txt"), []byte(b.String()), 0644)
}

func writeManifest(dir string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, ManifestFile), data, 0644)
}

// ReadManifest loads the manifest of an existing report directory.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}
