// Package plots renders figures from already-fetched query rows. Every
// renderer takes rows plus a destination path and returns the saved path;
// the output format follows the file extension (png, svg, pdf).
package plots

import (
	"errors"
	"fmt"
)

// ErrNoData indicates a render call over empty rows; renderers refuse to
// write empty figures.
var ErrNoData = errors.New("no data to plot")

// PerfPoint is one session's performance sample
type PerfPoint struct {
	Session     int
	Performance float64
	// Task is the task filename the session ran; runs of equal tasks
	// shade as protocol spans.
	Task string
}

// defaultWidth/Height match the wide layout session figures use.
const (
	defaultWidthInches  = 12
	defaultHeightInches = 4
)

func noData(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNoData)
}
