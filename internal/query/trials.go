package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ef-lab/ethopy-analysis/internal/schemas"
)

// Trials returns the trial rows of a session, optionally dropping aborted
// trials.
func (e *Engine) Trials(ctx context.Context, animalID, session int, removeAborted bool) ([]Trial, error) {
	q := `
		SELECT t.animal_id, t.session, t.trial_idx, t.cond_hash, t.start_time, t.end_time
		FROM trials t
		WHERE t.animal_id = ? AND t.session = ?`
	if removeAborted {
		q += ` AND NOT EXISTS (
			SELECT 1 FROM trial_aborted a
			WHERE a.animal_id = t.animal_id AND a.session = t.session AND a.trial_idx = t.trial_idx)`
	}
	q += ` ORDER BY t.trial_idx`

	rows, err := e.db.Conn().QueryContext(ctx, q, animalID, session)
	if err != nil {
		return nil, fmt.Errorf("failed to query trials: %w", err)
	}
	defer rows.Close()

	var trials []Trial
	for rows.Next() {
		var t Trial
		if err := rows.Scan(&t.AnimalID, &t.Session, &t.TrialIdx, &t.CondHash, &t.StartTime, &t.EndTime); err != nil {
			return nil, err
		}
		trials = append(trials, t)
	}
	return trials, rows.Err()
}

// TrialStates returns the state-onset rows of a session ordered by trial
// then onset time.
func (e *Engine) TrialStates(ctx context.Context, animalID, session int) ([]StateOnset, error) {
	rows, err := e.db.Conn().QueryContext(ctx, `
		SELECT trial_idx, state, time
		FROM trial_states
		WHERE animal_id = ? AND session = ?
		ORDER BY trial_idx, time`,
		animalID, session)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial states: %w", err)
	}
	defer rows.Close()

	var states []StateOnset
	for rows.Next() {
		var s StateOnset
		if err := rows.Scan(&s.TrialIdx, &s.State, &s.Time); err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	return states, rows.Err()
}

// SessionClasses returns the session row combined with the distinct
// condition-class combinations of its trials.
func (e *Engine) SessionClasses(ctx context.Context, animalID, session int) (*SessionClasses, error) {
	var s Session
	err := e.db.Conn().QueryRowContext(ctx, `
		SELECT animal_id, session, session_tmst, user_name, setup
		FROM sessions WHERE animal_id = ? AND session = ?`,
		animalID, session).Scan(&s.AnimalID, &s.Session, &s.Tmst, &s.UserName, &s.Setup)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no session %d for animal %d: %w", session, animalID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	rows, err := e.db.Conn().QueryContext(ctx, `
		SELECT DISTINCT c.stimulus_class, c.behavior_class, c.experiment_class, c.experiment_type
		FROM trials t
		JOIN conditions c ON c.cond_hash = t.cond_hash
		WHERE t.animal_id = ? AND t.session = ?`,
		animalID, session)
	if err != nil {
		return nil, fmt.Errorf("failed to query session conditions: %w", err)
	}
	defer rows.Close()

	sc := &SessionClasses{Session: s}
	for rows.Next() {
		var c ClassCombo
		if err := rows.Scan(&c.StimulusClass, &c.BehaviorClass, &c.ExperimentClass, &c.ExperimentType); err != nil {
			return nil, err
		}
		sc.Combos = append(sc.Combos, c)
	}
	return sc, rows.Err()
}

// conditionSpec describes how one condition kind hangs off the trials
type conditionSpec struct {
	kind       schemas.Kind
	trialTable string
	hashColumn string
	timeCols   []string
}

var (
	behaviorSpec = conditionSpec{
		kind:       schemas.Behavior,
		trialTable: "beh_trial_conditions",
		hashColumn: "beh_hash",
		timeCols:   []string{"time"},
	}
	stimulusSpec = conditionSpec{
		kind:       schemas.Stimulus,
		trialTable: "stim_trial_conditions",
		hashColumn: "stim_hash",
		timeCols:   []string{"start_time", "end_time"},
	}
)

// TrialExperiment joins the trials of a session to their experiment
// condition parameters, using the condition table declared for the
// session's experiment type.
func (e *Engine) TrialExperiment(ctx context.Context, animalID, session int) (*ConditionResult, error) {
	sc, err := e.SessionClasses(ctx, animalID, session)
	if err != nil {
		return nil, err
	}

	decl, err := e.decls.Lookup(schemas.Experiment, sc.Primary().ExperimentType)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		SELECT t.trial_idx, c.stimulus_class, c.behavior_class, c.experiment_class, c.experiment_type, ec.*
		FROM trials t
		JOIN conditions c ON c.cond_hash = t.cond_hash
		JOIN %q ec ON ec.cond_hash = t.cond_hash
		WHERE t.animal_id = ? AND t.session = ?
		ORDER BY t.trial_idx`, decl.Table)

	return e.dynamicRows(ctx, q, animalID, session)
}

// TrialBehavior joins the behavior trial conditions of a session to the
// behavior-class condition table and its child tables.
func (e *Engine) TrialBehavior(ctx context.Context, animalID, session int) (*ConditionResult, error) {
	sc, err := e.SessionClasses(ctx, animalID, session)
	if err != nil {
		return nil, err
	}
	return e.trialConditions(ctx, animalID, session, behaviorSpec, sc.Primary().BehaviorClass)
}

// TrialStimulus joins the stimulus trial conditions of a session to the
// stimulus-class condition table and every child table carrying rows for
// the session. When stimClass is empty the session's recorded stimulus
// class is used.
func (e *Engine) TrialStimulus(ctx context.Context, animalID, session int, stimClass string) (*ConditionResult, error) {
	if stimClass == "" {
		sc, err := e.SessionClasses(ctx, animalID, session)
		if err != nil {
			return nil, err
		}
		stimClass = sc.Primary().StimulusClass
	}
	return e.trialConditions(ctx, animalID, session, stimulusSpec, stimClass)
}

// trialConditions builds the dynamic join for one condition kind: trial
// rows joined to the class table, plus a LEFT JOIN for each child table
// that actually has rows for the session.
func (e *Engine) trialConditions(ctx context.Context, animalID, session int, spec conditionSpec, class string) (*ConditionResult, error) {
	decl, err := e.decls.Lookup(spec.kind, class)
	if err != nil {
		return nil, err
	}
	if exists, err := e.db.TableExists(decl.Table); err != nil {
		return nil, err
	} else if !exists {
		return nil, fmt.Errorf("cannot find table %q for %s class %q in snapshot", decl.Table, spec.kind, class)
	}

	children, err := e.childTables(ctx, animalID, session, spec, decl)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT t.trial_idx")
	for _, tc := range spec.timeCols {
		fmt.Fprintf(&b, ", t.%s", tc)
	}
	fmt.Fprintf(&b, ", c.*")
	for i := range children {
		fmt.Fprintf(&b, ", ch%d.*", i)
	}
	fmt.Fprintf(&b, "\nFROM %q t\nJOIN %q c ON c.%s = t.%s",
		spec.trialTable, decl.Table, spec.hashColumn, spec.hashColumn)
	for i, child := range children {
		fmt.Fprintf(&b, "\nLEFT JOIN %q ch%d ON ch%d.%s = t.%s", child, i, i, spec.hashColumn, spec.hashColumn)
	}
	fmt.Fprintf(&b, "\nWHERE t.animal_id = ? AND t.session = ?\nORDER BY t.trial_idx")

	return e.dynamicRows(ctx, b.String(), animalID, session)
}

// childTables merges declared children with introspected <table>_* tables
// and keeps only those joinable on the condition hash column and holding
// rows for the session's condition hashes.
func (e *Engine) childTables(ctx context.Context, animalID, session int, spec conditionSpec, decl schemas.ClassDeclaration) ([]string, error) {
	introspected, err := e.db.ChildTables(decl.Table)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var children []string
	for _, c := range append(append([]string{}, decl.Children...), introspected...) {
		if seen[c] {
			continue
		}
		seen[c] = true
		if exists, err := e.db.TableExists(c); err != nil {
			return nil, err
		} else if !exists {
			e.logger.Warn("Declared child table missing from snapshot", map[string]interface{}{
				"table": c,
			})
			continue
		}
		cols, err := e.db.TableColumns(c)
		if err != nil {
			return nil, err
		}
		hasHash := false
		for _, col := range cols {
			if col == spec.hashColumn {
				hasHash = true
				break
			}
		}
		if !hasHash {
			e.logger.Warn("Child table lacks the condition hash column", map[string]interface{}{
				"table":  c,
				"column": spec.hashColumn,
			})
			continue
		}
		var n int
		countQ := fmt.Sprintf(`SELECT COUNT(*) FROM %q ch
			JOIN %q t ON ch.%s = t.%s
			WHERE t.animal_id = ? AND t.session = ?`,
			c, spec.trialTable, spec.hashColumn, spec.hashColumn)
		if err := e.db.Conn().QueryRowContext(ctx, countQ, animalID, session).Scan(&n); err != nil {
			return nil, err
		}
		if n > 0 {
			children = append(children, c)
		}
	}
	return children, nil
}

// dynamicRows runs a query with dynamic columns and materializes the rows
// as column-name keyed maps. The first selected column must be trial_idx.
func (e *Engine) dynamicRows(ctx context.Context, q string, animalID, session int) (*ConditionResult, error) {
	rows, err := e.db.Conn().QueryContext(ctx, q, animalID, session)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial conditions: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &ConditionResult{Columns: cols}
	for rows.Next() {
		raw := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := ConditionRow{Values: make(map[string]interface{}, len(cols))}
		for i, col := range cols {
			v := raw[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			if i == 0 {
				if idx, ok := v.(int64); ok {
					row.TrialIdx = int(idx)
				}
				continue
			}
			row.Values[col] = v
		}
		result.Rows = append(result.Rows, row)
	}
	return result, rows.Err()
}
