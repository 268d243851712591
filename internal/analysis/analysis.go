// Package analysis derives session metrics from already-fetched rows.
// Everything here is stateless; the query engine fetches, this package
// computes.
package analysis

import (
	"errors"
	"fmt"
	"sort"
)

// OfftimeState marks a trial whose sequence left the normal state machine;
// such trials have no meaningful next state.
const OfftimeState = "Offtime"

// Terminal states that decide a trial.
const (
	RewardState = "Reward"
	PunishState = "Punish"
)

// NoneState is returned when a trial has no state following the requested one.
const NoneState = "None"

// ErrNoData indicates a derivation over an empty input
var ErrNoData = errors.New("no data")

// StateEvent is one state onset within a trial
type StateEvent struct {
	Trial int
	State string
}

// NextState returns the state that follows `after` in a trial's ordered
// state sequence. It returns NoneState when `after` is absent, when
// OfftimeState appears anywhere in the sequence, or when `after` is the
// last state.
func NextState(states []string, after string) string {
	idx := -1
	for i, s := range states {
		if s == OfftimeState {
			return NoneState
		}
		if idx < 0 && s == after {
			idx = i
		}
	}
	if idx < 0 || idx+1 >= len(states) {
		return NoneState
	}
	return states[idx+1]
}

// NoDecisiveTrialsError reports a performance computation over states that
// never reached Reward or Punish. Available carries the states that were
// present, for the warning message.
type NoDecisiveTrialsError struct {
	Available []string
}

func (e *NoDecisiveTrialsError) Error() string {
	return fmt.Sprintf("no %s or %s states found, available states: %v",
		RewardState, PunishState, e.Available)
}

// Performance computes the ratio of reward trials to decisive trials:
// reward / (reward + punish). When trials is non-empty the computation is
// restricted to those trial indices.
func Performance(states []StateEvent, trials []int) (float64, error) {
	if len(states) == 0 {
		return 0, fmt.Errorf("cannot calculate performance: %w", ErrNoData)
	}

	if len(trials) > 0 {
		wanted := make(map[int]bool, len(trials))
		for _, t := range trials {
			wanted[t] = true
		}
		filtered := states[:0:0]
		for _, s := range states {
			if wanted[s.Trial] {
				filtered = append(filtered, s)
			}
		}
		if len(filtered) == 0 {
			return 0, fmt.Errorf("no trials found matching the provided trial list: %w", ErrNoData)
		}
		states = filtered
	}

	var reward, punish int
	seen := make(map[string]bool)
	for _, s := range states {
		switch s.State {
		case RewardState:
			reward++
		case PunishState:
			punish++
		default:
			seen[s.State] = true
		}
	}

	if reward+punish == 0 {
		available := make([]string, 0, len(seen))
		for s := range seen {
			available = append(available, s)
		}
		sort.Strings(available)
		return 0, &NoDecisiveTrialsError{Available: available}
	}

	return float64(reward) / float64(reward+punish), nil
}

// UniqueRuns collapses consecutive equal values into runs, returning the
// run values and the index each run starts at. Used to shade protocol
// spans across ordered sessions.
func UniqueRuns(values []string) ([]string, []int) {
	var runValues []string
	var runStarts []int
	for i, v := range values {
		if len(runValues) == 0 || v != runValues[len(runValues)-1] {
			runValues = append(runValues, v)
			runStarts = append(runStarts, i)
		}
	}
	return runValues, runStarts
}

// FormatDuration renders a millisecond offset the way session summaries
// show it, e.g. "1.2 hours (4320.0 seconds)".
func FormatDuration(ms int64) string {
	seconds := float64(ms) / 1000.0
	hours := seconds / 3600.0
	return fmt.Sprintf("%.1f hours (%.1f seconds)", hours, seconds)
}
