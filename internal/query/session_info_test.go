package query

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ef-lab/ethopy-analysis/internal/analysis"
)

func TestSessionDuration(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	// Last state onset of session 1 is trial 4 at 40000 + 3*1000.
	duration, ok, err := engine.SessionDuration(ctx, 7, 1)
	if err != nil {
		t.Fatalf("SessionDuration: %v", err)
	}
	if !ok {
		t.Fatal("session 1 should have a duration")
	}
	if duration != "0.0 hours (43.0 seconds)" {
		t.Errorf("duration = %q", duration)
	}

	// Session 3 has no state rows at all.
	_, ok, err = engine.SessionDuration(ctx, 7, 3)
	if err != nil {
		t.Fatalf("SessionDuration: %v", err)
	}
	if ok {
		t.Error("session without states should report no duration")
	}
}

func TestPerformance(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	// Session 1: 2 rewards, 1 punish.
	perf, err := engine.Performance(ctx, 7, 1, nil)
	if err != nil {
		t.Fatalf("Performance: %v", err)
	}
	if math.Abs(perf-2.0/3.0) > 1e-9 {
		t.Errorf("performance = %f, want %f", perf, 2.0/3.0)
	}

	// Restricted to trials 1 and 2: 1 reward, 1 punish.
	perf, err = engine.Performance(ctx, 7, 1, []int{1, 2})
	if err != nil {
		t.Fatalf("Performance(trials): %v", err)
	}
	if perf != 0.5 {
		t.Errorf("filtered performance = %f, want 0.5", perf)
	}
}

func TestPerformanceIndecisiveSession(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Performance(context.Background(), 7, 2, nil)
	var noDecisive *analysis.NoDecisiveTrialsError
	if !errors.As(err, &noDecisive) {
		t.Fatalf("want NoDecisiveTrialsError, got %v", err)
	}
}

func TestSessionTask(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	task, err := engine.SessionTask(ctx, 7, 1)
	if err != nil {
		t.Fatalf("SessionTask: %v", err)
	}
	if task.Filename != "grating_task.py" {
		t.Errorf("filename = %q, want grating_task.py", task.Filename)
	}
	if task.GitHash != "abc123" {
		t.Errorf("git hash = %q", task.GitHash)
	}
	if len(task.File) == 0 {
		t.Error("task file blob should not be empty")
	}

	_, err = engine.SessionTask(ctx, 8, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing task: want ErrNotFound, got %v", err)
	}
}

func TestSaveTaskFile(t *testing.T) {
	engine := newTestEngine(t)
	dir := t.TempDir()

	path, err := engine.SaveTaskFile(context.Background(), 7, 1, dir)
	if err != nil {
		t.Fatalf("SaveTaskFile: %v", err)
	}
	want := filepath.Join(dir, "grating_task_animal_id_7_session_1.py")
	if path != want {
		t.Errorf("saved path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved task: %v", err)
	}
	if string(data) != "# demo task\n" {
		t.Errorf("saved content = %q", data)
	}
}

func TestSessionSummaryInfo(t *testing.T) {
	engine := newTestEngine(t)

	summary, err := engine.SessionSummaryInfo(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("SessionSummaryInfo: %v", err)
	}

	if summary.UserName != "alice" || summary.Setup != "rig1" {
		t.Errorf("summary header = %+v", summary)
	}
	if summary.Experiment != "MatchToSample" || summary.Stimulus != "Grating" || summary.Behavior != "MatchPort" {
		t.Errorf("summary classes = %+v", summary)
	}
	if summary.TaskFile != "grating_task.py" {
		t.Errorf("task file = %q", summary.TaskFile)
	}
	if !summary.HasPerf || math.Abs(summary.Performance-2.0/3.0) > 1e-9 {
		t.Errorf("performance = %v (has=%v)", summary.Performance, summary.HasPerf)
	}
	if summary.TrialCount != 4 {
		t.Errorf("trial count = %d, want 4", summary.TrialCount)
	}
	if summary.Liquid != 16 {
		t.Errorf("liquid = %f, want 16", summary.Liquid)
	}

	text := summary.Text()
	for _, line := range []string{
		"Animal id: 7, session: 1",
		"User name: alice",
		"Experiment: MatchToSample",
		"Task filename: grating_task.py",
		"Session performance: 0.667",
		"Number of trials: 4",
	} {
		if !strings.Contains(text, line) {
			t.Errorf("summary text missing %q:\n%s", line, text)
		}
	}
}

func TestSessionSummaryInfoDegradesGracefully(t *testing.T) {
	engine := newTestEngine(t)

	// Session 2 has no task row and no decisive trials.
	summary, err := engine.SessionSummaryInfo(context.Background(), 7, 2)
	if err != nil {
		t.Fatalf("SessionSummaryInfo: %v", err)
	}
	if summary.TaskFile != "" {
		t.Errorf("task file = %q, want empty", summary.TaskFile)
	}
	if summary.HasPerf {
		t.Error("indecisive session should have no performance")
	}
	if !strings.Contains(summary.Text(), "Session performance: n/a") {
		t.Error("text should mark performance n/a")
	}
}
