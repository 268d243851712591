package query

import (
	"context"
	"fmt"
	"strings"
)

// TrialLicks returns every lick of a session.
func (e *Engine) TrialLicks(ctx context.Context, animalID, session int) ([]Lick, error) {
	rows, err := e.db.Conn().QueryContext(ctx, `
		SELECT trial_idx, port, time
		FROM licks
		WHERE animal_id = ? AND session = ?
		ORDER BY time`,
		animalID, session)
	if err != nil {
		return nil, fmt.Errorf("failed to query licks: %w", err)
	}
	defer rows.Close()

	var licks []Lick
	for rows.Next() {
		var l Lick
		if err := rows.Scan(&l.TrialIdx, &l.Port, &l.Time); err != nil {
			return nil, err
		}
		licks = append(licks, l)
	}
	return licks, rows.Err()
}

// TrialProximities returns proximity events of a session, optionally
// restricted to a port list.
func (e *Engine) TrialProximities(ctx context.Context, animalID, session int, ports []int) ([]Proximity, error) {
	q := `
		SELECT trial_idx, port, in_position, time
		FROM proximities
		WHERE animal_id = ? AND session = ?`
	args := []interface{}{animalID, session}

	if len(ports) > 0 {
		placeholders := make([]string, len(ports))
		for i, p := range ports {
			placeholders[i] = "?"
			args = append(args, p)
		}
		q += ` AND port IN (` + strings.Join(placeholders, ", ") + `)`
	}
	q += ` ORDER BY time`

	rows, err := e.db.Conn().QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query proximities: %w", err)
	}
	defer rows.Close()

	var proximities []Proximity
	for rows.Next() {
		var p Proximity
		var inPos int
		if err := rows.Scan(&p.TrialIdx, &p.Port, &inPos, &p.Time); err != nil {
			return nil, err
		}
		p.InPosition = inPos != 0
		proximities = append(proximities, p)
	}
	return proximities, rows.Err()
}

// SessionRewards returns the rewards delivered during a session.
func (e *Engine) SessionRewards(ctx context.Context, animalID, session int) ([]Reward, error) {
	rows, err := e.db.Conn().QueryContext(ctx, `
		SELECT trial_idx, reward_type, reward_amount, time
		FROM rewards
		WHERE animal_id = ? AND session = ?
		ORDER BY trial_idx, time`,
		animalID, session)
	if err != nil {
		return nil, fmt.Errorf("failed to query rewards: %w", err)
	}
	defer rows.Close()

	var rewards []Reward
	for rows.Next() {
		var r Reward
		if err := rows.Scan(&r.TrialIdx, &r.Type, &r.Amount, &r.Time); err != nil {
			return nil, err
		}
		rewards = append(rewards, r)
	}
	return rewards, rows.Err()
}

// LiquidDelivered sums the reward amount over distinct trials of a
// session. Repeated reward rows within a trial count once, matching how
// the acquisition system logs retries.
func (e *Engine) LiquidDelivered(ctx context.Context, animalID, session int) (float64, error) {
	var total float64
	err := e.db.Conn().QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM (
			SELECT trial_idx, MIN(reward_amount) AS amount
			FROM rewards
			WHERE animal_id = ? AND session = ?
			GROUP BY trial_idx
		)`,
		animalID, session).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum rewards: %w", err)
	}
	return total, nil
}
