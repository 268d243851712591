package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ef-lab/ethopy-analysis/internal/analysis"
)

// SessionDuration returns the session duration derived from the last
// state-onset time, formatted for humans. Returns ("", false) when the
// session has no state rows.
func (e *Engine) SessionDuration(ctx context.Context, animalID, session int) (string, bool, error) {
	var lastMs sql.NullInt64
	err := e.db.Conn().QueryRowContext(ctx, `
		SELECT MAX(time) FROM trial_states WHERE animal_id = ? AND session = ?`,
		animalID, session).Scan(&lastMs)
	if err != nil {
		return "", false, fmt.Errorf("failed to query state times: %w", err)
	}
	if !lastMs.Valid {
		return "", false, nil
	}
	return analysis.FormatDuration(lastMs.Int64), true, nil
}

// Performance computes the reward/(reward+punish) ratio for a session,
// optionally restricted to a trial list. Degenerate sessions (no states,
// no matching trials, no decisive states) log a warning and surface the
// analysis error.
func (e *Engine) Performance(ctx context.Context, animalID, session int, trials []int) (float64, error) {
	states, err := e.TrialStates(ctx, animalID, session)
	if err != nil {
		return 0, err
	}

	events := make([]analysis.StateEvent, len(states))
	for i, s := range states {
		events[i] = analysis.StateEvent{Trial: s.TrialIdx, State: s.State}
	}

	perf, err := analysis.Performance(events, trials)
	if err != nil {
		e.logger.Warn("Cannot calculate performance", map[string]interface{}{
			"animal_id": animalID,
			"session":   session,
			"reason":    err.Error(),
		})
		return 0, err
	}
	return perf, nil
}

// SessionTask returns the task configuration recorded for a session. The
// filename is the basename of the stored task path.
func (e *Engine) SessionTask(ctx context.Context, animalID, session int) (*TaskInfo, error) {
	var info TaskInfo
	err := e.db.Conn().QueryRowContext(ctx, `
		SELECT task_name, git_hash, task_file
		FROM session_tasks
		WHERE animal_id = ? AND session = ?`,
		animalID, session).Scan(&info.TaskName, &info.GitHash, &info.File)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no task recorded for animal %d session %d: %w", animalID, session, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query session task: %w", err)
	}

	if i := strings.LastIndex(info.TaskName, "/"); i >= 0 {
		info.Filename = info.TaskName[i+1:]
	} else {
		info.Filename = info.TaskName
	}
	return &info, nil
}

// SaveTaskFile writes a session's task file to dir, suffixing the name
// with the animal and session so saved copies stay unique.
func (e *Engine) SaveTaskFile(ctx context.Context, animalID, session int, dir string) (string, error) {
	info, err := e.SessionTask(ctx, animalID, session)
	if err != nil {
		return "", err
	}

	name := info.Filename
	ext := filepath.Ext(name)
	name = strings.TrimSuffix(name, ext)
	name = fmt.Sprintf("%s_animal_id_%d_session_%d%s", name, animalID, session, ext)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, info.File, 0644); err != nil {
		return "", fmt.Errorf("failed to save task file: %w", err)
	}

	e.logger.Info("Saved task file", map[string]interface{}{
		"path": path,
	})
	return path, nil
}

// SessionSummary aggregates everything the summary command prints.
type SessionSummary struct {
	AnimalID    int     `json:"animalId"`
	Session     int     `json:"session"`
	UserName    string  `json:"userName"`
	Setup       string  `json:"setup"`
	Start       string  `json:"start"`
	Duration    string  `json:"duration,omitempty"`
	Experiment  string  `json:"experimentClass"`
	Stimulus    string  `json:"stimulusClass"`
	Behavior    string  `json:"behaviorClass"`
	TaskFile    string  `json:"taskFile,omitempty"`
	GitHash     string  `json:"gitHash,omitempty"`
	Performance float64 `json:"performance"`
	HasPerf     bool    `json:"hasPerformance"`
	TrialCount  int     `json:"trialCount"`
	Liquid      float64 `json:"liquidDelivered"`
}

// SessionSummaryInfo collects the composite session summary. Missing
// pieces (task, performance) degrade to empty fields rather than failing
// the whole summary.
func (e *Engine) SessionSummaryInfo(ctx context.Context, animalID, session int) (*SessionSummary, error) {
	sc, err := e.SessionClasses(ctx, animalID, session)
	if err != nil {
		return nil, err
	}
	combo := sc.Primary()

	summary := &SessionSummary{
		AnimalID:   animalID,
		Session:    session,
		UserName:   sc.Session.UserName,
		Setup:      sc.Session.Setup,
		Start:      sc.Session.Tmst,
		Experiment: combo.ExperimentClass,
		Stimulus:   combo.StimulusClass,
		Behavior:   combo.BehaviorClass,
	}

	if duration, ok, err := e.SessionDuration(ctx, animalID, session); err != nil {
		return nil, err
	} else if ok {
		summary.Duration = duration
	}

	if task, err := e.SessionTask(ctx, animalID, session); err == nil {
		summary.TaskFile = task.Filename
		summary.GitHash = task.GitHash
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if perf, err := e.Performance(ctx, animalID, session, nil); err == nil {
		summary.Performance = perf
		summary.HasPerf = true
	}

	states, err := e.TrialStates(ctx, animalID, session)
	if err != nil {
		return nil, err
	}
	for _, s := range states {
		if s.TrialIdx > summary.TrialCount {
			summary.TrialCount = s.TrialIdx
		}
	}

	liquid, err := e.LiquidDelivered(ctx, animalID, session)
	if err != nil {
		return nil, err
	}
	summary.Liquid = liquid

	return summary, nil
}

// Text renders the summary in the layout the summary command prints.
func (s *SessionSummary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Animal id: %d, session: %d\n", s.AnimalID, s.Session)
	fmt.Fprintf(&b, "User name: %s\n", s.UserName)
	fmt.Fprintf(&b, "Setup: %s\n", s.Setup)
	fmt.Fprintf(&b, "Session start: %s\n", s.Start)
	if s.Duration != "" {
		fmt.Fprintf(&b, "Session duration: %s\n", s.Duration)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Experiment: %s\n", s.Experiment)
	fmt.Fprintf(&b, "Stimulus: %s\n", s.Stimulus)
	fmt.Fprintf(&b, "Behavior: %s\n", s.Behavior)
	if s.TaskFile != "" {
		b.WriteString("\n")
		fmt.Fprintf(&b, "Task filename: %s\n", s.TaskFile)
		fmt.Fprintf(&b, "Git hash: %s\n", s.GitHash)
	}
	b.WriteString("\n")
	if s.HasPerf {
		fmt.Fprintf(&b, "Session performance: %.3f\n", s.Performance)
	} else {
		b.WriteString("Session performance: n/a\n")
	}
	fmt.Fprintf(&b, "Number of trials: %d\n", s.TrialCount)
	fmt.Fprintf(&b, "Liquid delivered: %.1f\n", s.Liquid)
	return b.String()
}
