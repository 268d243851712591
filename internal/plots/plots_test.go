package plots

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ef-lab/ethopy-analysis/internal/query"
)

func assertSaved(t *testing.T, path string, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		t.Fatalf("figure not written: %v", statErr)
	}
	if info.Size() == 0 {
		t.Error("figure file is empty")
	}
}

func TestSessionPerformance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "performance.png")
	points := []PerfPoint{
		{Session: 1, Performance: 0.4, Task: "task_a.py"},
		{Session: 2, Performance: 0.55, Task: "task_a.py"},
		{Session: 3, Performance: 0.7, Task: "task_b.py"},
		{Session: 5, Performance: 0.8, Task: "task_b.py"},
	}

	saved, err := SessionPerformance(points, 7, path)
	assertSaved(t, saved, err)
}

func TestSessionPerformanceNoData(t *testing.T) {
	_, err := SessionPerformance(nil, 7, filepath.Join(t.TempDir(), "x.png"))
	if !errors.Is(err, ErrNoData) {
		t.Errorf("want ErrNoData, got %v", err)
	}
}

func TestSessionsPerDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dates.png")
	dates := []query.DateSessions{
		{Date: "2024-01-10", Sessions: []int{1}},
		{Date: "2024-01-12", Sessions: []int{2, 3}},
	}

	saved, err := SessionsPerDate(dates, 7, path)
	assertSaved(t, saved, err)
}

func TestTrialsPerSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trials.svg")
	counts := []query.SessionTrialCount{
		{AnimalID: 7, Session: 1, TrialCount: 40},
		{AnimalID: 7, Session: 2, TrialCount: 55},
	}

	saved, err := TrialsPerSession(counts, path)
	assertSaved(t, saved, err)
}

func TestPerformanceLiquid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perf_liquid.png")

	saved, err := PerformanceLiquid(
		[]int{1, 2, 3},
		[]float64{0.5, 0.6, 0.75},
		[]float64{320, 410, 380},
		path,
	)
	assertSaved(t, saved, err)
}

func TestPerformanceLiquidSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perf_liquid.svg")

	saved, err := PerformanceLiquid(
		[]int{1, 2, 3},
		[]float64{0.5, 0.6, 0.75},
		[]float64{320, 410, 380},
		path,
	)
	assertSaved(t, saved, err)

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read figure: %v", readErr)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("figure at .svg path is not SVG")
	}
}

func TestPerformanceLiquidLengthMismatch(t *testing.T) {
	_, err := PerformanceLiquid([]int{1, 2}, []float64{0.5}, []float64{100, 200},
		filepath.Join(t.TempDir(), "x.png"))
	if !errors.Is(err, ErrNoData) {
		t.Errorf("want ErrNoData, got %v", err)
	}
}

func TestLickRaster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "licks.png")
	licks := []query.Lick{
		{TrialIdx: 1, Port: 1, Time: 10250},
		{TrialIdx: 2, Port: 2, Time: 20250},
		{TrialIdx: 3, Port: 1, Time: 30100},
	}

	saved, err := LickRaster(licks, 7, 1, path)
	assertSaved(t, saved, err)
}

func TestProximityTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proximity.png")
	events := []query.Proximity{
		{TrialIdx: 1, Port: 1, InPosition: true, Time: 10100},
		{TrialIdx: 1, Port: 1, InPosition: false, Time: 10900},
		{TrialIdx: 2, Port: 3, InPosition: true, Time: 20100},
	}

	saved, err := ProximityTrace(events, 7, 1, path)
	assertSaved(t, saved, err)
}

func TestAnimalComparison(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comparison.png")
	series := []AnimalSeries{
		{AnimalID: 7, Perfs: []float64{0.5, 0.6, 0.7}},
		{AnimalID: 8, Perfs: []float64{0.45, 0.65}},
		{AnimalID: 9, Perfs: nil},
	}

	saved, err := AnimalComparison(series, path)
	assertSaved(t, saved, err)
}

func TestAnimalComparisonAllEmpty(t *testing.T) {
	_, err := AnimalComparison([]AnimalSeries{{AnimalID: 7}}, filepath.Join(t.TempDir(), "x.png"))
	if !errors.Is(err, ErrNoData) {
		t.Errorf("want ErrNoData, got %v", err)
	}
}
