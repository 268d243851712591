package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SessionsOptions filters the Sessions listing
type SessionsOptions struct {
	// FromDate and ToDate bound session_tmst (exclusive, acquisition
	// format "YYYY-MM-DD HH:MM:SS"; a bare date compares as its midnight).
	FromDate string
	ToDate   string
	// MinTrials drops sessions with fewer trials when > 0
	MinTrials int
}

// ListAnimals returns every animal present in the snapshot with its
// session count and first/last session timestamps. Excluded sessions do
// not count.
func (e *Engine) ListAnimals(ctx context.Context) ([]Animal, error) {
	rows, err := e.db.Conn().QueryContext(ctx, `
		SELECT s.animal_id, COUNT(*), MIN(s.session_tmst), MAX(s.session_tmst)
		FROM sessions s
		LEFT JOIN session_excluded x
			ON x.animal_id = s.animal_id AND x.session = s.session
		WHERE x.animal_id IS NULL
		GROUP BY s.animal_id
		ORDER BY s.animal_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}
	defer rows.Close()

	var animals []Animal
	for rows.Next() {
		var a Animal
		if err := rows.Scan(&a.AnimalID, &a.SessionCount, &a.FirstSession, &a.LastSession); err != nil {
			return nil, err
		}
		animals = append(animals, a)
	}
	return animals, rows.Err()
}

// Sessions returns the sessions of an animal within the requested bounds,
// excluded sessions removed.
func (e *Engine) Sessions(ctx context.Context, animalID int, opts SessionsOptions) ([]Session, error) {
	q := `
		SELECT s.animal_id, s.session, s.session_tmst, s.user_name, s.setup
		FROM sessions s
		LEFT JOIN session_excluded x
			ON x.animal_id = s.animal_id AND x.session = s.session
		WHERE x.animal_id IS NULL AND s.animal_id = ?`
	args := []interface{}{animalID}

	if opts.FromDate != "" {
		q += ` AND s.session_tmst > ?`
		args = append(args, opts.FromDate)
	}
	if opts.ToDate != "" {
		q += ` AND s.session_tmst < ?`
		args = append(args, opts.ToDate)
	}
	if opts.MinTrials > 0 {
		q += ` AND (SELECT COUNT(*) FROM trials t
			WHERE t.animal_id = s.animal_id AND t.session = s.session) >= ?`
		args = append(args, opts.MinTrials)
	}
	q += ` ORDER BY s.session`

	rows, err := e.db.Conn().QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions for animal %d: %w", animalID, err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.AnimalID, &s.Session, &s.Tmst, &s.UserName, &s.Setup); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	e.logger.Debug("Sessions fetched", map[string]interface{}{
		"animal_id": animalID,
		"count":     len(sessions),
	})
	return sessions, rows.Err()
}

// TrialsPerSession returns trial counts per session for an animal.
// Sessions with fewer than minTrials trials and excluded sessions are
// dropped.
func (e *Engine) TrialsPerSession(ctx context.Context, animalID, minTrials int) ([]SessionTrialCount, error) {
	rows, err := e.db.Conn().QueryContext(ctx, `
		SELECT s.animal_id, s.session, s.session_tmst, COUNT(t.trial_idx) AS trials_count
		FROM sessions s
		JOIN trials t
			ON t.animal_id = s.animal_id AND t.session = s.session
		LEFT JOIN session_excluded x
			ON x.animal_id = s.animal_id AND x.session = s.session
		WHERE x.animal_id IS NULL AND s.animal_id = ?
		GROUP BY s.animal_id, s.session, s.session_tmst
		HAVING trials_count > ?
		ORDER BY s.session`,
		animalID, minTrials)
	if err != nil {
		return nil, fmt.Errorf("failed to count trials per session for animal %d: %w", animalID, err)
	}
	defer rows.Close()

	var counts []SessionTrialCount
	for rows.Next() {
		var c SessionTrialCount
		if err := rows.Scan(&c.AnimalID, &c.Session, &c.Tmst, &c.TrialCount); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// SessionsPerDate groups an animal's sessions by the calendar date they
// started on. Feeds the sessions-per-date bar plot.
func (e *Engine) SessionsPerDate(ctx context.Context, animalID, minTrials int) ([]DateSessions, error) {
	sessions, err := e.Sessions(ctx, animalID, SessionsOptions{MinTrials: minTrials})
	if err != nil {
		return nil, err
	}

	var out []DateSessions
	byDate := map[string]int{}
	for _, s := range sessions {
		date := s.Tmst
		if len(date) >= 10 {
			date = date[:10]
		}
		if i, ok := byDate[date]; ok {
			out[i].Sessions = append(out[i].Sessions, s.Session)
			continue
		}
		byDate[date] = len(out)
		out = append(out, DateSessions{Date: date, Sessions: []int{s.Session}})
	}
	return out, nil
}

// SetupInfo resolves which animal and session a setup is currently
// running, from the control table. Unknown setups are an error.
func (e *Engine) SetupInfo(ctx context.Context, setup string) (*SetupInfo, error) {
	var info SetupInfo
	err := e.db.Conn().QueryRowContext(ctx, `
		SELECT setup, animal_id, session, status FROM control WHERE setup = ?`,
		setup).Scan(&info.Setup, &info.AnimalID, &info.Session, &info.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no setup %q in control table: %w", setup, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query setup: %w", err)
	}
	return &info, nil
}
