package storage

import (
	"database/sql"
	"fmt"
)

// SeedDemo populates a freshly created database with a small two-animal
// dataset so the CLI can be exercised without an acquisition export.
func (db *DB) SeedDemo() error {
	return db.WithTx(func(tx *sql.Tx) error {
		condHash := "demo-cond-1"
		stimHash := "demo-stim-1"
		behHash := "demo-beh-1"

		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO conditions (cond_hash, stimulus_class, behavior_class, experiment_class, experiment_type)
			 VALUES (?, 'Grating', 'MatchPort', 'MatchToSample', 'MatchToSample')`, condHash); err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO cond_match_to_sample (cond_hash, trial_selection, trial_duration, intertrial_duration)
			 VALUES (?, 'staircase', 5000, 1000)`, condHash); err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO cond_grating (stim_hash, theta, spatial_freq, contrast, duration)
			 VALUES (?, 90, 0.05, 100, 2000)`, stimHash); err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO cond_match_port (beh_hash, response_port, reward_port, reward_amount)
			 VALUES (?, 1, 1, 8)`, behHash); err != nil {
			return err
		}

		for animal := 1; animal <= 2; animal++ {
			for session := 1; session <= 3; session++ {
				tmst := fmt.Sprintf("2024-03-%02d 10:00:00", session+10)
				if _, err := tx.Exec(
					`INSERT OR IGNORE INTO sessions (animal_id, session, session_tmst, user_name, setup)
					 VALUES (?, ?, ?, 'demo', ?)`, animal, session, tmst,
					fmt.Sprintf("setup%d", animal)); err != nil {
					return err
				}
				if _, err := tx.Exec(
					`INSERT OR IGNORE INTO session_tasks (animal_id, session, task_name, task_file, git_hash)
					 VALUES (?, ?, 'tasks/demo_task.py', X'', 'deadbeef')`, animal, session); err != nil {
					return err
				}
				if _, err := tx.Exec(
					`INSERT OR IGNORE INTO control (setup, animal_id, session, status)
					 VALUES (?, ?, ?, 'running')
					 ON CONFLICT(setup) DO UPDATE SET animal_id = excluded.animal_id, session = excluded.session`,
					fmt.Sprintf("setup%d", animal), animal, session); err != nil {
					return err
				}

				for trial := 1; trial <= 10; trial++ {
					start := int64(trial) * 6000
					if _, err := tx.Exec(
						`INSERT OR IGNORE INTO trials (animal_id, session, trial_idx, cond_hash, start_time, end_time)
						 VALUES (?, ?, ?, ?, ?, ?)`,
						animal, session, trial, condHash, start, start+5000); err != nil {
						return err
					}

					// Alternate outcomes; every 5th trial aborts.
					outcome := "Reward"
					if trial%2 == 0 {
						outcome = "Punish"
					}
					states := []string{"PreTrial", "Trial", outcome, "InterTrial"}
					if trial%5 == 0 {
						states = []string{"PreTrial", "Abort"}
						if _, err := tx.Exec(
							`INSERT OR IGNORE INTO trial_aborted (animal_id, session, trial_idx)
							 VALUES (?, ?, ?)`, animal, session, trial); err != nil {
							return err
						}
					}
					for i, state := range states {
						if _, err := tx.Exec(
							`INSERT INTO trial_states (animal_id, session, trial_idx, state, time)
							 VALUES (?, ?, ?, ?, ?)`,
							animal, session, trial, state, start+int64(i)*1000); err != nil {
							return err
						}
					}

					if _, err := tx.Exec(
						`INSERT INTO beh_trial_conditions (animal_id, session, trial_idx, beh_hash, time)
						 VALUES (?, ?, ?, ?, ?)`, animal, session, trial, behHash, start); err != nil {
						return err
					}
					if _, err := tx.Exec(
						`INSERT INTO stim_trial_conditions (animal_id, session, trial_idx, stim_hash, start_time, end_time)
						 VALUES (?, ?, ?, ?, ?, ?)`, animal, session, trial, stimHash, start, start+2000); err != nil {
						return err
					}
					if _, err := tx.Exec(
						`INSERT INTO licks (animal_id, session, trial_idx, port, time)
						 VALUES (?, ?, ?, 1, ?)`, animal, session, trial, start+1500); err != nil {
						return err
					}
					if _, err := tx.Exec(
						`INSERT INTO proximities (animal_id, session, trial_idx, port, in_position, time)
						 VALUES (?, ?, ?, 1, 1, ?)`, animal, session, trial, start+500); err != nil {
						return err
					}
					if outcome == "Reward" && trial%5 != 0 {
						if _, err := tx.Exec(
							`INSERT INTO rewards (animal_id, session, trial_idx, reward_type, reward_amount, time)
							 VALUES (?, ?, ?, 'water', 8, ?)`, animal, session, trial, start+2500); err != nil {
							return err
						}
					}
				}
			}
		}
		return nil
	})
}
