package query

import (
	"context"
	"errors"
	"testing"

	"github.com/ef-lab/ethopy-analysis/internal/schemas"
)

func TestTrials(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	trials, err := engine.Trials(ctx, 7, 1, false)
	if err != nil {
		t.Fatalf("Trials: %v", err)
	}
	if len(trials) != 4 {
		t.Fatalf("got %d trials, want 4", len(trials))
	}

	trials, err = engine.Trials(ctx, 7, 1, true)
	if err != nil {
		t.Fatalf("Trials(removeAborted): %v", err)
	}
	if len(trials) != 3 {
		t.Fatalf("got %d trials after abort removal, want 3", len(trials))
	}
	for _, tr := range trials {
		if tr.TrialIdx == 3 {
			t.Error("aborted trial 3 survived removal")
		}
	}
}

func TestTrialStatesOrdering(t *testing.T) {
	engine := newTestEngine(t)

	states, err := engine.TrialStates(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("TrialStates: %v", err)
	}
	// 4+4+2+4 state onsets across the four trials.
	if len(states) != 14 {
		t.Fatalf("got %d state rows, want 14", len(states))
	}

	lastTrial, lastTime := 0, int64(-1)
	for _, s := range states {
		if s.TrialIdx < lastTrial || (s.TrialIdx == lastTrial && s.Time < lastTime) {
			t.Fatalf("states out of order at trial %d time %d", s.TrialIdx, s.Time)
		}
		lastTrial, lastTime = s.TrialIdx, s.Time
	}
	if states[0].State != "PreTrial" {
		t.Errorf("first state = %q, want PreTrial", states[0].State)
	}
}

func TestSessionClasses(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	sc, err := engine.SessionClasses(ctx, 7, 1)
	if err != nil {
		t.Fatalf("SessionClasses: %v", err)
	}
	if sc.Session.UserName != "alice" || sc.Session.Setup != "rig1" {
		t.Errorf("session row = %+v", sc.Session)
	}
	if len(sc.Combos) != 1 {
		t.Fatalf("got %d combos, want 1", len(sc.Combos))
	}
	combo := sc.Primary()
	if combo.StimulusClass != "Grating" || combo.BehaviorClass != "MatchPort" ||
		combo.ExperimentClass != "MatchToSample" {
		t.Errorf("combo = %+v", combo)
	}

	_, err = engine.SessionClasses(ctx, 7, 99)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing session: want ErrNotFound, got %v", err)
	}
}

func TestTrialExperiment(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.TrialExperiment(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("TrialExperiment: %v", err)
	}
	if len(result.Rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(result.Rows))
	}

	row := result.Rows[0]
	if row.TrialIdx != 1 {
		t.Errorf("first trial idx = %d", row.TrialIdx)
	}
	if got := row.Values["trial_selection"]; got != "staircase" {
		t.Errorf("trial_selection = %v, want staircase", got)
	}
	if got := row.Values["experiment_type"]; got != "MatchToSample" {
		t.Errorf("experiment_type = %v", got)
	}
}

func TestTrialBehavior(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.TrialBehavior(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("TrialBehavior: %v", err)
	}
	if len(result.Rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(result.Rows))
	}
	if got := result.Rows[0].Values["response_port"]; got != int64(1) {
		t.Errorf("response_port = %v (%T), want 1", got, got)
	}
	if got := result.Rows[0].Values["reward_amount"]; got != float64(8) {
		t.Errorf("reward_amount = %v (%T), want 8", got, got)
	}
}

func TestTrialStimulus(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	result, err := engine.TrialStimulus(ctx, 7, 1, "")
	if err != nil {
		t.Fatalf("TrialStimulus: %v", err)
	}
	if len(result.Rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(result.Rows))
	}

	row := result.Rows[0]
	if got := row.Values["theta"]; got != float64(45) {
		t.Errorf("theta = %v, want 45", got)
	}
	// The movie child table has rows, so its columns join in.
	if got := row.Values["movie_name"]; got != "drifting.avi" {
		t.Errorf("movie_name = %v, want drifting.avi", got)
	}
}

func TestTrialStimulusChildScopedToSession(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	// The movie child now only holds rows for a hash no trial in this
	// session references, so its columns must not join in.
	exec := func(q string, args ...interface{}) {
		t.Helper()
		if _, err := engine.db.Conn().Exec(q, args...); err != nil {
			t.Fatalf("exec: %v\nquery: %s", err, q)
		}
	}
	exec(`DELETE FROM cond_grating_movie WHERE stim_hash = 's1'`)
	exec(`INSERT INTO cond_grating_movie (stim_hash, movie_name, clip_number)
	      VALUES ('s-other', 'other.avi', 1)`)

	result, err := engine.TrialStimulus(ctx, 7, 1, "")
	if err != nil {
		t.Fatalf("TrialStimulus: %v", err)
	}
	if len(result.Rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(result.Rows))
	}
	for _, col := range result.Columns {
		if col == "movie_name" || col == "clip_number" {
			t.Errorf("column %q joined from a child with no rows for this session", col)
		}
	}
	if _, ok := result.Rows[0].Values["movie_name"]; ok {
		t.Error("movie_name present in row values")
	}
}

func TestTrialStimulusUnknownClass(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.TrialStimulus(context.Background(), 7, 1, "Hologram")
	var unknownErr *schemas.UnknownClassError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("want UnknownClassError, got %v", err)
	}
	if unknownErr.Class != "Hologram" {
		t.Errorf("error class = %q", unknownErr.Class)
	}
}
