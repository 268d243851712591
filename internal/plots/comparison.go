package plots

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// AnimalSeries is one animal's per-session performance for comparison
type AnimalSeries struct {
	AnimalID int
	Perfs    []float64
}

// AnimalComparison overlays per-session performance across animals.
// Sessions align by ordinal, not by id, since animals progress at
// different rates.
func AnimalComparison(series []AnimalSeries, path string) (string, error) {
	nonEmpty := 0
	for _, s := range series {
		if len(s.Perfs) > 0 {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		return "", noData("animal comparison")
	}

	p := plot.New()
	p.Title.Text = "Animal comparison"
	p.X.Label.Text = "session #"
	p.Y.Label.Text = "performance"
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(plotter.NewGrid())

	for i, s := range series {
		if len(s.Perfs) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.Perfs))
		for j, perf := range s.Perfs {
			xys[j] = plotter.XY{X: float64(j + 1), Y: perf}
		}
		line, markers, err := plotter.NewLinePoints(xys)
		if err != nil {
			return "", err
		}
		line.Color = plotutil.Color(i)
		markers.Color = plotutil.Color(i)
		markers.GlyphStyle.Shape = draw.RingGlyph{}
		markers.GlyphStyle.Radius = vg.Points(3)
		p.Add(line, markers)
		p.Legend.Add(fmt.Sprintf("animal %d", s.AnimalID), line)
	}
	p.Legend.Top = true

	if err := p.Save(defaultWidthInches*vg.Inch, defaultHeightInches*vg.Inch, path); err != nil {
		return "", fmt.Errorf("failed to save comparison plot: %w", err)
	}
	return path, nil
}
