package query

import (
	"path/filepath"
	"testing"

	"github.com/ef-lab/ethopy-analysis/internal/config"
	"github.com/ef-lab/ethopy-analysis/internal/logging"
	"github.com/ef-lab/ethopy-analysis/internal/schemas"
	"github.com/ef-lab/ethopy-analysis/internal/storage"
)

// newTestEngine creates an engine over a temp database seeded with a
// small two-animal fixture:
//
//	animal 7, session 1: 4 trials (Reward, Punish, Abort, Reward), licks,
//	  proximities, rewards, grating stimulus with a movie child row
//	animal 7, session 2: 1 trial with no decisive state
//	animal 7, session 3: excluded
//	animal 8, session 1: 1 trial, Reward
func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	logger := logging.NewLogger(logging.Config{
		Format: logging.JSONFormat,
		Level:  logging.ErrorLevel,
	})

	db, err := storage.Create(filepath.Join(t.TempDir(), "ethopy.db"), logger)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	seedFixture(t, db)

	return NewEngine(db, schemas.Defaults(), logger, config.DefaultConfig())
}

func seedFixture(t *testing.T, db *storage.DB) {
	t.Helper()

	exec := func(q string, args ...interface{}) {
		t.Helper()
		if _, err := db.Conn().Exec(q, args...); err != nil {
			t.Fatalf("seed: %v\nquery: %s", err, q)
		}
	}

	// Condition rows shared by all trials.
	exec(`INSERT INTO conditions (cond_hash, stimulus_class, behavior_class, experiment_class, experiment_type)
	      VALUES ('c1', 'Grating', 'MatchPort', 'MatchToSample', 'MatchToSample')`)
	exec(`INSERT INTO cond_match_to_sample (cond_hash, trial_selection, trial_duration, intertrial_duration)
	      VALUES ('c1', 'staircase', 5000, 1000)`)
	exec(`INSERT INTO cond_match_port (beh_hash, response_port, reward_port, reward_amount)
	      VALUES ('b1', 1, 1, 8)`)
	exec(`INSERT INTO cond_grating (stim_hash, theta, spatial_freq, contrast, duration)
	      VALUES ('s1', 45, 0.1, 80, 2000)`)
	exec(`INSERT INTO cond_grating_movie (stim_hash, movie_name, clip_number)
	      VALUES ('s1', 'drifting.avi', 3)`)

	// Animal 7, session 1.
	exec(`INSERT INTO sessions (animal_id, session, session_tmst, user_name, setup)
	      VALUES (7, 1, '2024-01-10 09:00:00', 'alice', 'rig1')`)
	exec(`INSERT INTO session_tasks (animal_id, session, task_name, task_file, git_hash)
	      VALUES (7, 1, 'conf/grating_task.py', ?, 'abc123')`, []byte("# demo task\n"))

	type trialSpec struct {
		idx     int
		states  []string
		aborted bool
	}
	trials := []trialSpec{
		{1, []string{"PreTrial", "Trial", "Reward", "InterTrial"}, false},
		{2, []string{"PreTrial", "Trial", "Punish", "InterTrial"}, false},
		{3, []string{"PreTrial", "Abort"}, true},
		{4, []string{"PreTrial", "Trial", "Reward", "InterTrial"}, false},
	}
	for _, tr := range trials {
		start := int64(tr.idx) * 10000
		exec(`INSERT INTO trials (animal_id, session, trial_idx, cond_hash, start_time, end_time)
		      VALUES (7, 1, ?, 'c1', ?, ?)`, tr.idx, start, start+5000)
		for i, state := range tr.states {
			exec(`INSERT INTO trial_states (animal_id, session, trial_idx, state, time)
			      VALUES (7, 1, ?, ?, ?)`, tr.idx, state, start+int64(i)*1000)
		}
		if tr.aborted {
			exec(`INSERT INTO trial_aborted (animal_id, session, trial_idx) VALUES (7, 1, ?)`, tr.idx)
		}
		exec(`INSERT INTO beh_trial_conditions (animal_id, session, trial_idx, beh_hash, time)
		      VALUES (7, 1, ?, 'b1', ?)`, tr.idx, start)
		exec(`INSERT INTO stim_trial_conditions (animal_id, session, trial_idx, stim_hash, start_time, end_time)
		      VALUES (7, 1, ?, 's1', ?, ?)`, tr.idx, start, start+2000)
	}

	exec(`INSERT INTO licks (animal_id, session, trial_idx, port, time) VALUES (7, 1, 1, 1, 10250)`)
	exec(`INSERT INTO licks (animal_id, session, trial_idx, port, time) VALUES (7, 1, 2, 2, 20250)`)
	exec(`INSERT INTO proximities (animal_id, session, trial_idx, port, in_position, time)
	      VALUES (7, 1, 1, 1, 1, 10100)`)
	exec(`INSERT INTO proximities (animal_id, session, trial_idx, port, in_position, time)
	      VALUES (7, 1, 1, 1, 0, 10900)`)
	exec(`INSERT INTO proximities (animal_id, session, trial_idx, port, in_position, time)
	      VALUES (7, 1, 2, 3, 1, 20100)`)
	// Trial 1 logs the reward twice (retry); it must count once.
	exec(`INSERT INTO rewards (animal_id, session, trial_idx, reward_type, reward_amount, time)
	      VALUES (7, 1, 1, 'water', 8, 10300)`)
	exec(`INSERT INTO rewards (animal_id, session, trial_idx, reward_type, reward_amount, time)
	      VALUES (7, 1, 1, 'water', 8, 10350)`)
	exec(`INSERT INTO rewards (animal_id, session, trial_idx, reward_type, reward_amount, time)
	      VALUES (7, 1, 4, 'water', 8, 40300)`)

	// Animal 7, session 2: one indecisive trial.
	exec(`INSERT INTO sessions (animal_id, session, session_tmst, user_name, setup)
	      VALUES (7, 2, '2024-01-12 09:00:00', 'alice', 'rig1')`)
	exec(`INSERT INTO trials (animal_id, session, trial_idx, cond_hash, start_time, end_time)
	      VALUES (7, 2, 1, 'c1', 0, 4000)`)
	exec(`INSERT INTO trial_states (animal_id, session, trial_idx, state, time)
	      VALUES (7, 2, 1, 'PreTrial', 0)`)
	exec(`INSERT INTO trial_states (animal_id, session, trial_idx, state, time)
	      VALUES (7, 2, 1, 'Sleep', 1000)`)

	// Animal 7, session 3: excluded.
	exec(`INSERT INTO sessions (animal_id, session, session_tmst, user_name, setup)
	      VALUES (7, 3, '2024-01-15 09:00:00', 'alice', 'rig1')`)
	exec(`INSERT INTO session_excluded (animal_id, session, reason) VALUES (7, 3, 'rig fault')`)

	// Animal 8, session 1.
	exec(`INSERT INTO sessions (animal_id, session, session_tmst, user_name, setup)
	      VALUES (8, 1, '2024-01-11 14:00:00', 'bob', 'rig2')`)
	exec(`INSERT INTO trials (animal_id, session, trial_idx, cond_hash, start_time, end_time)
	      VALUES (8, 1, 1, 'c1', 0, 5000)`)
	exec(`INSERT INTO trial_states (animal_id, session, trial_idx, state, time)
	      VALUES (8, 1, 1, 'Reward', 500)`)

	// Control table: rig1 currently runs animal 7, session 2.
	exec(`INSERT INTO control (setup, animal_id, session, status) VALUES ('rig1', 7, 2, 'running')`)
}
