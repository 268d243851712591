// Package export writes query results as CSV or JSON tables.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/ef-lab/ethopy-analysis/internal/query"
)

// Table is a column-ordered result set ready for serialization.
type Table struct {
	Columns []string
	Rows    [][]string
}

// WriteCSV writes the table with a header row.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the table as an array of column-keyed objects.
func WriteJSON(w io.Writer, t *Table) error {
	objects := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		obj := make(map[string]string, len(t.Columns))
		for j, col := range t.Columns {
			if j < len(row) {
				obj[col] = row[j]
			}
		}
		objects[i] = obj
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(objects)
}

// TrialsTable converts trial rows.
func TrialsTable(trials []query.Trial) *Table {
	t := &Table{Columns: []string{"animal_id", "session", "trial_idx", "cond_hash", "start_time", "end_time"}}
	for _, tr := range trials {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(tr.AnimalID),
			strconv.Itoa(tr.Session),
			strconv.Itoa(tr.TrialIdx),
			tr.CondHash,
			strconv.FormatInt(tr.StartTime, 10),
			strconv.FormatInt(tr.EndTime, 10),
		})
	}
	return t
}

// StatesTable converts state-onset rows.
func StatesTable(states []query.StateOnset) *Table {
	t := &Table{Columns: []string{"trial_idx", "state", "time"}}
	for _, s := range states {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(s.TrialIdx),
			s.State,
			strconv.FormatInt(s.Time, 10),
		})
	}
	return t
}

// LicksTable converts lick rows.
func LicksTable(licks []query.Lick) *Table {
	t := &Table{Columns: []string{"trial_idx", "port", "time"}}
	for _, l := range licks {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(l.TrialIdx),
			strconv.Itoa(l.Port),
			strconv.FormatInt(l.Time, 10),
		})
	}
	return t
}

// ProximitiesTable converts proximity rows.
func ProximitiesTable(events []query.Proximity) *Table {
	t := &Table{Columns: []string{"trial_idx", "port", "in_position", "time"}}
	for _, e := range events {
		inPos := "0"
		if e.InPosition {
			inPos = "1"
		}
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(e.TrialIdx),
			strconv.Itoa(e.Port),
			inPos,
			strconv.FormatInt(e.Time, 10),
		})
	}
	return t
}

// RewardsTable converts reward rows.
func RewardsTable(rewards []query.Reward) *Table {
	t := &Table{Columns: []string{"trial_idx", "reward_type", "reward_amount", "time"}}
	for _, r := range rewards {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(r.TrialIdx),
			r.Type,
			strconv.FormatFloat(r.Amount, 'g', -1, 64),
			strconv.FormatInt(r.Time, 10),
		})
	}
	return t
}

// ConditionTable converts a dynamic-column condition result, keeping the
// query's column order.
func ConditionTable(result *query.ConditionResult) *Table {
	t := &Table{Columns: result.Columns}
	for _, row := range result.Rows {
		out := make([]string, len(result.Columns))
		for i, col := range result.Columns {
			if i == 0 {
				out[i] = strconv.Itoa(row.TrialIdx)
				continue
			}
			v, ok := row.Values[col]
			if !ok || v == nil {
				continue
			}
			out[i] = fmt.Sprintf("%v", v)
		}
		t.Rows = append(t.Rows, out)
	}
	return t
}
