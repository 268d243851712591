package plots

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ef-lab/ethopy-analysis/internal/query"
)

// LickRaster draws lick times per trial, one color per port.
func LickRaster(licks []query.Lick, animalID, session int, path string) (string, error) {
	if len(licks) == 0 {
		return "", noData("lick raster")
	}

	byPort := map[int]plotter.XYs{}
	for _, l := range licks {
		byPort[l.Port] = append(byPort[l.Port], plotter.XY{
			X: float64(l.Time) / 1000.0,
			Y: float64(l.TrialIdx),
		})
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Licks, animal %d session %d", animalID, session)
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "trial"
	p.Add(plotter.NewGrid())

	ports := make([]int, 0, len(byPort))
	for port := range byPort {
		ports = append(ports, port)
	}
	sort.Ints(ports)

	for i, port := range ports {
		scatter, err := plotter.NewScatter(byPort[port])
		if err != nil {
			return "", err
		}
		scatter.GlyphStyle.Shape = draw.BoxGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(2)
		scatter.GlyphStyle.Color = plotutil.Color(i)
		p.Add(scatter)
		p.Legend.Add(fmt.Sprintf("port %d", port), scatter)
	}
	p.Legend.Top = true

	if err := p.Save(defaultWidthInches*vg.Inch, defaultHeightInches*vg.Inch, path); err != nil {
		return "", fmt.Errorf("failed to save lick raster: %w", err)
	}
	return path, nil
}

// ProximityTrace draws the in/out-of-position trace per port as step
// lines offset by port number.
func ProximityTrace(events []query.Proximity, animalID, session int, path string) (string, error) {
	if len(events) == 0 {
		return "", noData("proximity trace")
	}

	byPort := map[int][]query.Proximity{}
	for _, e := range events {
		byPort[e.Port] = append(byPort[e.Port], e)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Proximity, animal %d session %d", animalID, session)
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "port"
	p.Add(plotter.NewGrid())

	ports := make([]int, 0, len(byPort))
	for port := range byPort {
		ports = append(ports, port)
	}
	sort.Ints(ports)

	for i, port := range ports {
		evts := byPort[port]
		sort.Slice(evts, func(a, b int) bool { return evts[a].Time < evts[b].Time })

		xys := make(plotter.XYs, len(evts))
		for j, e := range evts {
			y := float64(port)
			if e.InPosition {
				y += 0.4
			}
			xys[j] = plotter.XY{X: float64(e.Time) / 1000.0, Y: y}
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return "", err
		}
		line.StepStyle = plotter.PostStep
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("port %d", port), line)
	}
	p.Legend.Top = true

	if err := p.Save(defaultWidthInches*vg.Inch, defaultHeightInches*vg.Inch, path); err != nil {
		return "", fmt.Errorf("failed to save proximity trace: %w", err)
	}
	return path, nil
}
