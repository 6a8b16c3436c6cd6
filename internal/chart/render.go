package chart

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// Options controls chart appearance.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	Width  vg.Length
	Height vg.Length
	// LabelRotation rotates x tick labels, in radians
	LabelRotation float64
	BarColor      color.Color
}

// DefaultOptions returns a 10x6 inch chart with 45 degree date labels.
func DefaultOptions() Options {
	return Options{
		Title:         "Indexed Documents Over Time",
		XLabel:        "Date",
		YLabel:        "Number of Documents Indexed",
		Width:         10 * vg.Inch,
		Height:        6 * vg.Inch,
		LabelRotation: math.Pi / 4,
		BarColor:      color.RGBA{R: 31, G: 119, B: 180, A: 255},
	}
}

const maxBarWidth = 40 // points

// barWidth spreads n bars over the drawable width, leaving gaps between bars.
func barWidth(total vg.Length, n int) vg.Length {
	if n == 0 {
		return vg.Points(maxBarWidth)
	}
	w := (total - vg.Inch) / vg.Length(n) * 0.8
	if w > vg.Points(maxBarWidth) {
		w = vg.Points(maxBarWidth)
	}
	if w < vg.Points(1) {
		w = vg.Points(1)
	}
	return w
}

// Build lays out the chart for s. The returned bar chart is nil when s is empty;
// the plot is still valid and renders axes with zero bars.
func Build(s Series, opts Options) (*plot.Plot, *plotter.BarChart, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.Y.Min = 0

	p.X.Tick.Label.Rotation = opts.LabelRotation
	if opts.LabelRotation != 0 {
		p.X.Tick.Label.XAlign = text.XRight
		p.X.Tick.Label.YAlign = text.YCenter
	}

	if s.Len() == 0 {
		p.X.Min, p.X.Max = 0, 1
		p.Y.Max = 1
		p.X.Tick.Marker = plot.ConstantTicks(nil)
		return p, nil, nil
	}

	bars, err := plotter.NewBarChart(plotter.Values(s.Values()), barWidth(opts.Width, s.Len()))
	if err != nil {
		return nil, nil, fmt.Errorf("bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	if opts.BarColor != nil {
		bars.Color = opts.BarColor
	}

	p.Add(bars)
	p.NominalX(s.Labels...)
	return p, bars, nil
}

// Save renders s as a PNG at path, replacing any existing file.
// The image is written to a temporary file in the same directory and renamed into place.
func Save(s Series, opts Options, path string) error {
	p, _, err := Build(s, opts)
	if err != nil {
		return err
	}

	w, err := p.WriterTo(opts.Width, opts.Height, "png")
	if err != nil {
		return fmt.Errorf("create png canvas: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".chart-*.png")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := w.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
