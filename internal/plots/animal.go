package plots

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/ef-lab/ethopy-analysis/internal/analysis"
	"github.com/ef-lab/ethopy-analysis/internal/query"
)

// SessionPerformance draws per-session performance as a line with
// markers, shading protocol spans where the task file changed.
func SessionPerformance(points []PerfPoint, animalID int, path string) (string, error) {
	if len(points) == 0 {
		return "", noData("session performance")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Animal id: %d", animalID)
	p.X.Label.Text = "session"
	p.Y.Label.Text = "performance"
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(points))
	labels := make([]string, len(points))
	tasks := make([]string, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: float64(i + 1), Y: pt.Performance}
		labels[i] = fmt.Sprintf("%d", pt.Session)
		tasks[i] = pt.Task
	}

	// Shade one span per run of equal task files.
	runs, starts := analysis.UniqueRuns(tasks)
	bounds := append(append([]int{}, starts...), len(points))
	for i, task := range runs {
		x0 := float64(bounds[i]) + 0.5
		x1 := float64(bounds[i+1]) + 0.5
		span, err := plotter.NewPolygon(plotter.XYs{
			{X: x0, Y: 0}, {X: x1, Y: 0}, {X: x1, Y: 1}, {X: x0, Y: 1},
		})
		if err != nil {
			return "", err
		}
		c := plotutil.Color(i)
		if rgba, ok := c.(color.RGBA); ok {
			rgba.A = 60
			span.Color = rgba
		} else {
			span.Color = c
		}
		span.LineStyle.Width = 0
		p.Add(span)
		p.Legend.Add(task, span)
	}

	line, markers, err := plotter.NewLinePoints(xys)
	if err != nil {
		return "", err
	}
	markers.GlyphStyle.Shape = draw.CircleGlyph{}
	markers.GlyphStyle.Radius = vg.Points(3)
	p.Add(line, markers)
	p.NominalX(labels...)
	p.Legend.Top = true

	if err := p.Save(defaultWidthInches*vg.Inch, defaultHeightInches*vg.Inch, path); err != nil {
		return "", fmt.Errorf("failed to save performance plot: %w", err)
	}
	return path, nil
}

// SessionsPerDate draws a bar chart of session counts per calendar date.
func SessionsPerDate(dates []query.DateSessions, animalID int, path string) (string, error) {
	if len(dates) == 0 {
		return "", noData("sessions per date")
	}

	values := make(plotter.Values, len(dates))
	labels := make([]string, len(dates))
	for i, d := range dates {
		values[i] = float64(len(d.Sessions))
		labels[i] = d.Date
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Animal id: %d", animalID)
	p.X.Label.Text = "date"
	p.Y.Label.Text = "# sessions"
	p.X.Tick.Label.Rotation = 1.2
	p.X.Tick.Label.XAlign = draw.XRight
	p.Add(plotter.NewGrid())

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return "", err
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(labels...)

	if err := p.Save(defaultWidthInches*vg.Inch, defaultHeightInches*vg.Inch, path); err != nil {
		return "", fmt.Errorf("failed to save sessions-per-date plot: %w", err)
	}
	return path, nil
}

// TrialsPerSession draws a bar chart of trial counts per session.
func TrialsPerSession(counts []query.SessionTrialCount, path string) (string, error) {
	if len(counts) == 0 {
		return "", noData("trials per session")
	}

	values := make(plotter.Values, len(counts))
	labels := make([]string, len(counts))
	for i, c := range counts {
		values[i] = float64(c.TrialCount)
		labels[i] = fmt.Sprintf("%d", c.Session)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Animal id: %d", counts[0].AnimalID)
	p.X.Label.Text = "session id"
	p.Y.Label.Text = "# trials"
	p.Add(plotter.NewGrid())

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return "", err
	}
	bars.Color = plotutil.Color(2)
	p.Add(bars)
	p.NominalX(labels...)

	if err := p.Save(defaultWidthInches*vg.Inch, defaultHeightInches*vg.Inch, path); err != nil {
		return "", fmt.Errorf("failed to save trials-per-session plot: %w", err)
	}
	return path, nil
}

// PerformanceLiquid stacks per-session performance over delivered liquid
// on a shared session axis, each with its own y scale. The output format
// follows the path's extension: .svg writes SVG, anything else PNG.
func PerformanceLiquid(sessions []int, perfs, liquid []float64, path string) (string, error) {
	if len(sessions) == 0 || len(sessions) != len(perfs) || len(sessions) != len(liquid) {
		return "", noData("performance/liquid")
	}

	labels := make([]string, len(sessions))
	perfXYs := make(plotter.XYs, len(sessions))
	liquidXYs := make(plotter.XYs, len(sessions))
	for i, s := range sessions {
		labels[i] = fmt.Sprintf("%d", s)
		perfXYs[i] = plotter.XY{X: float64(i + 1), Y: perfs[i]}
		liquidXYs[i] = plotter.XY{X: float64(i + 1), Y: liquid[i]}
	}

	top := plot.New()
	top.Title.Text = "Performance"
	top.Y.Label.Text = "performance"
	top.Y.Min, top.Y.Max = 0, 1
	top.Add(plotter.NewGrid())
	perfLine, perfMarkers, err := plotter.NewLinePoints(perfXYs)
	if err != nil {
		return "", err
	}
	perfLine.Color = plotutil.Color(3)
	perfMarkers.Color = plotutil.Color(3)
	top.Add(perfLine, perfMarkers)
	top.NominalX(labels...)

	bottom := plot.New()
	bottom.Title.Text = "Liquid"
	bottom.X.Label.Text = "session id"
	bottom.Y.Label.Text = "liquid (uL)"
	bottom.Add(plotter.NewGrid())
	liquidLine, liquidMarkers, err := plotter.NewLinePoints(liquidXYs)
	if err != nil {
		return "", err
	}
	liquidLine.Color = plotutil.Color(0)
	liquidMarkers.Color = plotutil.Color(0)
	bottom.Add(liquidLine, liquidMarkers)
	bottom.NominalX(labels...)

	width := defaultWidthInches * vg.Inch
	height := 2 * defaultHeightInches * vg.Inch

	var (
		dc      draw.Canvas
		writeTo func(io.Writer) (int64, error)
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		c := vgsvg.New(width, height)
		dc = draw.New(c)
		writeTo = c.WriteTo
	default:
		img := vgimg.New(width, height)
		dc = draw.New(img)
		png := vgimg.PngCanvas{Canvas: img}
		writeTo = png.WriteTo
	}

	rows := [][]*plot.Plot{{top}, {bottom}}
	canvases := plot.Align(rows, draw.Tiles{Rows: 2, Cols: 1}, dc)
	top.Draw(canvases[0][0])
	bottom.Draw(canvases[1][0])

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := writeTo(f); err != nil {
		return "", fmt.Errorf("failed to save performance/liquid plot: %w", err)
	}
	return path, nil
}
