// Package query is the query engine over the experiment database. Every
// method is a parameterized SQL query returning typed rows; derivations
// over those rows live in internal/analysis.
package query

import (
	"errors"

	"github.com/ef-lab/ethopy-analysis/internal/config"
	"github.com/ef-lab/ethopy-analysis/internal/logging"
	"github.com/ef-lab/ethopy-analysis/internal/schemas"
	"github.com/ef-lab/ethopy-analysis/internal/storage"
)

// ErrNotFound indicates a lookup that matched nothing where the caller
// asked for a specific entity (setup, session, task).
var ErrNotFound = errors.New("not found")

// Engine coordinates storage, configuration, and schema declarations.
type Engine struct {
	db     *storage.DB
	logger *logging.Logger
	config *config.Config
	decls  *schemas.Declarations
}

// NewEngine creates a query engine over an opened database.
func NewEngine(db *storage.DB, decls *schemas.Declarations, logger *logging.Logger, cfg *config.Config) *Engine {
	if decls == nil {
		decls = schemas.Defaults()
	}
	return &Engine{
		db:     db,
		logger: logger,
		config: cfg,
		decls:  decls,
	}
}

// DB exposes the underlying database, mainly for the doctor command.
func (e *Engine) DB() *storage.DB {
	return e.db
}

// Animal summarizes one animal's presence in the snapshot
type Animal struct {
	AnimalID     int    `json:"animalId"`
	SessionCount int    `json:"sessionCount"`
	FirstSession string `json:"firstSession"`
	LastSession  string `json:"lastSession"`
}

// Session is one row of the sessions table
type Session struct {
	AnimalID int    `json:"animalId"`
	Session  int    `json:"session"`
	Tmst     string `json:"sessionTmst"`
	UserName string `json:"userName"`
	Setup    string `json:"setup"`
}

// SessionTrialCount pairs a session with its trial count
type SessionTrialCount struct {
	AnimalID   int    `json:"animalId"`
	Session    int    `json:"session"`
	Tmst       string `json:"sessionTmst"`
	TrialCount int    `json:"trialCount"`
}

// Trial is one row of the trials table
type Trial struct {
	AnimalID  int    `json:"animalId"`
	Session   int    `json:"session"`
	TrialIdx  int    `json:"trialIdx"`
	CondHash  string `json:"condHash"`
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
}

// StateOnset is one state transition within a trial
type StateOnset struct {
	TrialIdx int    `json:"trialIdx"`
	State    string `json:"state"`
	Time     int64  `json:"time"`
}

// Lick is one lick event
type Lick struct {
	TrialIdx int   `json:"trialIdx"`
	Port     int   `json:"port"`
	Time     int64 `json:"time"`
}

// Proximity is one proximity-sensor event
type Proximity struct {
	TrialIdx   int   `json:"trialIdx"`
	Port       int   `json:"port"`
	InPosition bool  `json:"inPosition"`
	Time       int64 `json:"time"`
}

// Reward is one delivered reward
type Reward struct {
	TrialIdx int     `json:"trialIdx"`
	Type     string  `json:"type"`
	Amount   float64 `json:"amount"`
	Time     int64   `json:"time"`
}

// ClassCombo is one distinct combination of condition classes within a session
type ClassCombo struct {
	StimulusClass   string `json:"stimulusClass"`
	BehaviorClass   string `json:"behaviorClass"`
	ExperimentClass string `json:"experimentClass"`
	ExperimentType  string `json:"experimentType"`
}

// SessionClasses is a session row combined with its condition-class combos
type SessionClasses struct {
	Session Session      `json:"session"`
	Combos  []ClassCombo `json:"combos"`
}

// Primary returns the first class combination. Sessions normally run a
// single combination; multiples indicate a mid-session task change.
func (sc *SessionClasses) Primary() ClassCombo {
	if len(sc.Combos) == 0 {
		return ClassCombo{}
	}
	return sc.Combos[0]
}

// SetupInfo is the control-table row for one setup
type SetupInfo struct {
	Setup    string `json:"setup"`
	AnimalID int    `json:"animalId"`
	Session  int    `json:"session"`
	Status   string `json:"status"`
}

// TaskInfo is the task configuration recorded for a session
type TaskInfo struct {
	TaskName string `json:"taskName"`
	Filename string `json:"filename"`
	GitHash  string `json:"gitHash"`
	File     []byte `json:"-"`
}

// DateSessions groups the sessions started on one calendar date
type DateSessions struct {
	Date     string `json:"date"`
	Sessions []int  `json:"sessions"`
}

// ConditionRow is one trial joined against its condition parameters.
// Condition tables vary per class, so parameters are dynamic.
type ConditionRow struct {
	TrialIdx int                    `json:"trialIdx"`
	Values   map[string]interface{} `json:"values"`
}

// ConditionResult carries dynamic-column rows plus the column order.
type ConditionResult struct {
	Columns []string       `json:"columns"`
	Rows    []ConditionRow `json:"rows"`
}
