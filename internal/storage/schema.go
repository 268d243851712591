package storage

import "fmt"

// CoreTables are the tables every usable snapshot must carry.
// Used by the doctor command.
var CoreTables = []string{
	"sessions",
	"session_tasks",
	"session_excluded",
	"trials",
	"trial_states",
	"trial_aborted",
	"conditions",
	"control",
	"beh_trial_conditions",
	"stim_trial_conditions",
	"licks",
	"proximities",
	"rewards",
}

// EnsureSchema creates the experiment tables when absent. Idempotent.
// The layout mirrors the acquisition database: sessions keyed by
// (animal_id, session), trials adding trial_idx, events adding a time
// column in milliseconds since session start.
func (db *DB) EnsureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		animal_id INTEGER NOT NULL,
		session INTEGER NOT NULL,
		session_tmst TEXT NOT NULL,
		user_name TEXT NOT NULL DEFAULT '',
		setup TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (animal_id, session)
	);

	CREATE TABLE IF NOT EXISTS session_tasks (
		animal_id INTEGER NOT NULL,
		session INTEGER NOT NULL,
		task_name TEXT NOT NULL,
		task_file BLOB,
		git_hash TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (animal_id, session)
	);

	CREATE TABLE IF NOT EXISTS session_excluded (
		animal_id INTEGER NOT NULL,
		session INTEGER NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (animal_id, session)
	);

	CREATE TABLE IF NOT EXISTS trials (
		animal_id INTEGER NOT NULL,
		session INTEGER NOT NULL,
		trial_idx INTEGER NOT NULL,
		cond_hash TEXT NOT NULL DEFAULT '',
		start_time INTEGER NOT NULL DEFAULT 0,
		end_time INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (animal_id, session, trial_idx)
	);

	CREATE TABLE IF NOT EXISTS trial_states (
		animal_id INTEGER NOT NULL,
		session INTEGER NOT NULL,
		trial_idx INTEGER NOT NULL,
		state TEXT NOT NULL,
		time INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_trial_states_session
		ON trial_states(animal_id, session, trial_idx, time);

	CREATE TABLE IF NOT EXISTS trial_aborted (
		animal_id INTEGER NOT NULL,
		session INTEGER NOT NULL,
		trial_idx INTEGER NOT NULL,
		PRIMARY KEY (animal_id, session, trial_idx)
	);

	CREATE TABLE IF NOT EXISTS conditions (
		cond_hash TEXT PRIMARY KEY,
		stimulus_class TEXT NOT NULL DEFAULT '',
		behavior_class TEXT NOT NULL DEFAULT '',
		experiment_class TEXT NOT NULL DEFAULT '',
		experiment_type TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS control (
		setup TEXT PRIMARY KEY,
		animal_id INTEGER NOT NULL,
		session INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT '',
		last_ping TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS beh_trial_conditions (
		animal_id INTEGER NOT NULL,
		session INTEGER NOT NULL,
		trial_idx INTEGER NOT NULL,
		beh_hash TEXT NOT NULL,
		time INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_beh_trial_conditions_session
		ON beh_trial_conditions(animal_id, session, trial_idx);

	CREATE TABLE IF NOT EXISTS stim_trial_conditions (
		animal_id INTEGER NOT NULL,
		session INTEGER NOT NULL,
		trial_idx INTEGER NOT NULL,
		stim_hash TEXT NOT NULL,
		start_time INTEGER NOT NULL DEFAULT 0,
		end_time INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_stim_trial_conditions_session
		ON stim_trial_conditions(animal_id, session, trial_idx);

	CREATE TABLE IF NOT EXISTS licks (
		animal_id INTEGER NOT NULL,
		session INTEGER NOT NULL,
		trial_idx INTEGER NOT NULL,
		port INTEGER NOT NULL,
		time INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_licks_session
		ON licks(animal_id, session, trial_idx, time);

	CREATE TABLE IF NOT EXISTS proximities (
		animal_id INTEGER NOT NULL,
		session INTEGER NOT NULL,
		trial_idx INTEGER NOT NULL,
		port INTEGER NOT NULL,
		in_position INTEGER NOT NULL,
		time INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_proximities_session
		ON proximities(animal_id, session, trial_idx, time);

	CREATE TABLE IF NOT EXISTS rewards (
		animal_id INTEGER NOT NULL,
		session INTEGER NOT NULL,
		trial_idx INTEGER NOT NULL,
		reward_type TEXT NOT NULL DEFAULT 'water',
		reward_amount REAL NOT NULL DEFAULT 0,
		time INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_rewards_session
		ON rewards(animal_id, session, trial_idx);

	-- Built-in condition-class tables; labs extend these via SCHEMAS.toml.
	CREATE TABLE IF NOT EXISTS cond_match_port (
		beh_hash TEXT PRIMARY KEY,
		response_port INTEGER NOT NULL DEFAULT 0,
		reward_port INTEGER NOT NULL DEFAULT 0,
		reward_amount REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS cond_match_to_sample (
		cond_hash TEXT PRIMARY KEY,
		trial_selection TEXT NOT NULL DEFAULT '',
		trial_duration INTEGER NOT NULL DEFAULT 0,
		intertrial_duration INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS cond_grating (
		stim_hash TEXT PRIMARY KEY,
		theta REAL NOT NULL DEFAULT 0,
		spatial_freq REAL NOT NULL DEFAULT 0,
		contrast REAL NOT NULL DEFAULT 0,
		duration INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS cond_grating_movie (
		stim_hash TEXT NOT NULL,
		movie_name TEXT NOT NULL,
		clip_number INTEGER NOT NULL DEFAULT 0
	);
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create experiment schema: %w", err)
	}
	return nil
}

// MissingCoreTables returns the core tables absent from the snapshot.
func (db *DB) MissingCoreTables() ([]string, error) {
	var missing []string
	for _, name := range CoreTables {
		exists, err := db.TableExists(name)
		if err != nil {
			return nil, err
		}
		if !exists {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
