package query

import (
	"context"
	"errors"
	"testing"
)

func TestListAnimals(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	animals, err := engine.ListAnimals(ctx)
	if err != nil {
		t.Fatalf("ListAnimals: %v", err)
	}
	if len(animals) != 2 {
		t.Fatalf("got %d animals, want 2", len(animals))
	}

	if animals[0].AnimalID != 7 || animals[1].AnimalID != 8 {
		t.Errorf("animal ids = %d, %d", animals[0].AnimalID, animals[1].AnimalID)
	}
	// Session 3 is excluded, so animal 7 counts two sessions.
	if animals[0].SessionCount != 2 {
		t.Errorf("animal 7 session count = %d, want 2", animals[0].SessionCount)
	}
	if animals[0].FirstSession != "2024-01-10 09:00:00" {
		t.Errorf("first session = %q", animals[0].FirstSession)
	}
}

func TestSessionsExcludesMaskedSessions(t *testing.T) {
	engine := newTestEngine(t)

	sessions, err := engine.Sessions(context.Background(), 7, SessionsOptions{})
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2 (session 3 excluded)", len(sessions))
	}
	for _, s := range sessions {
		if s.Session == 3 {
			t.Error("excluded session 3 leaked into listing")
		}
	}
}

func TestSessionsDateBounds(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	sessions, err := engine.Sessions(ctx, 7, SessionsOptions{FromDate: "2024-01-11"})
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Session != 2 {
		t.Errorf("from-date filter: got %+v, want only session 2", sessions)
	}

	sessions, err = engine.Sessions(ctx, 7, SessionsOptions{ToDate: "2024-01-11"})
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Session != 1 {
		t.Errorf("to-date filter: got %+v, want only session 1", sessions)
	}
}

func TestSessionsMinTrials(t *testing.T) {
	engine := newTestEngine(t)

	sessions, err := engine.Sessions(context.Background(), 7, SessionsOptions{MinTrials: 2})
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Session != 1 {
		t.Errorf("min-trials filter: got %+v, want only session 1", sessions)
	}
}

func TestTrialsPerSession(t *testing.T) {
	engine := newTestEngine(t)

	counts, err := engine.TrialsPerSession(context.Background(), 7, 0)
	if err != nil {
		t.Fatalf("TrialsPerSession: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("got %d rows, want 2", len(counts))
	}
	if counts[0].Session != 1 || counts[0].TrialCount != 4 {
		t.Errorf("session 1 count = %+v", counts[0])
	}
	if counts[1].Session != 2 || counts[1].TrialCount != 1 {
		t.Errorf("session 2 count = %+v", counts[1])
	}

	// The threshold is strict: a session with exactly minTrials trials drops.
	counts, err = engine.TrialsPerSession(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("TrialsPerSession: %v", err)
	}
	if len(counts) != 1 || counts[0].Session != 1 {
		t.Errorf("strict threshold: got %+v", counts)
	}
}

func TestSessionsPerDate(t *testing.T) {
	engine := newTestEngine(t)

	dates, err := engine.SessionsPerDate(context.Background(), 7, 0)
	if err != nil {
		t.Fatalf("SessionsPerDate: %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("got %d dates, want 2", len(dates))
	}
	if dates[0].Date != "2024-01-10" || len(dates[0].Sessions) != 1 {
		t.Errorf("date group 0 = %+v", dates[0])
	}
}

func TestSetupInfo(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	info, err := engine.SetupInfo(ctx, "rig1")
	if err != nil {
		t.Fatalf("SetupInfo: %v", err)
	}
	if info.AnimalID != 7 || info.Session != 2 {
		t.Errorf("rig1 = animal %d session %d, want 7/2", info.AnimalID, info.Session)
	}

	_, err = engine.SetupInfo(ctx, "rig99")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown setup: want ErrNotFound, got %v", err)
	}
}

func TestQueryFailuresAreNotNotFound(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	// A broken connection is a query failure, not a missing row.
	if err := engine.db.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}

	_, err := engine.SetupInfo(ctx, "rig1")
	if err == nil {
		t.Fatal("SetupInfo on closed db succeeded")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("SetupInfo: db failure reported as ErrNotFound: %v", err)
	}

	_, err = engine.SessionClasses(ctx, 7, 1)
	if err == nil {
		t.Fatal("SessionClasses on closed db succeeded")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("SessionClasses: db failure reported as ErrNotFound: %v", err)
	}
}
