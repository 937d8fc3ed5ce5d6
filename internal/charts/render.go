// Package charts renders aligned axis series as SVG line charts.
package charts

import (
	"errors"
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/RMahshie/vibewatch/pkg/models"
)

// ErrNotEnoughData is returned when a series has fewer than two distinct keys
var ErrNotEnoughData = errors.New("not enough data to draw a line")

const (
	DefaultWidth  = 640
	DefaultHeight = 320
)

var (
	healthyColor = drawing.ColorFromHex("2e7d32")
	currentColor = drawing.ColorFromHex("c62828")
)

// xAxisName labels the key axis
func xAxisName(kind models.KeyKind) string {
	switch kind {
	case models.KeyTime:
		return "Time (s)"
	case models.KeyIndex:
		return "Sample"
	default:
		return "Frequency (Hz)"
	}
}

// Drawable reports whether the series has the two distinct keys a line needs
func Drawable(series models.AxisSeries) bool {
	if len(series.Points) == 0 {
		return false
	}
	first := series.Points[0].Frequency
	for _, p := range series.Points[1:] {
		if p.Frequency != first {
			return true
		}
	}
	return false
}

// RenderSVG draws the healthy and current lines of one axis
func RenderSVG(w io.Writer, series models.AxisSeries, width, height int) error {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	if !Drawable(series) {
		return fmt.Errorf("axis %s: %w", series.Axis, ErrNotEnoughData)
	}

	var hx, hy, cx, cy []float64
	for _, p := range series.Points {
		if p.HealthyValue != nil {
			hx = append(hx, p.Frequency)
			hy = append(hy, *p.HealthyValue)
		}
		if p.CurrentValue != nil {
			cx = append(cx, p.Frequency)
			cy = append(cy, *p.CurrentValue)
		}
	}
	var lines []chart.Series
	if len(hx) > 0 {
		lines = append(lines, chart.ContinuousSeries{
			Name:    "Healthy",
			XValues: hx,
			YValues: hy,
			Style:   chart.Style{StrokeColor: healthyColor, StrokeWidth: 2},
		})
	}
	if len(cx) > 0 {
		lines = append(lines, chart.ContinuousSeries{
			Name:    "Current",
			XValues: cx,
			YValues: cy,
			Style:   chart.Style{StrokeColor: currentColor, StrokeWidth: 2},
		})
	}

	graph := chart.Chart{
		Title:  string(series.Axis),
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis:  chart.XAxis{Name: xAxisName(series.KeyKind)},
		YAxis:  chart.YAxis{Name: "Amplitude", Range: flatRange(append(hy, cy...))},
		Series: lines,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render %s chart: %w", series.Axis, err)
	}
	return nil
}

// flatRange widens a constant series so the y axis has a non-zero span
func flatRange(ys []float64) chart.Range {
	if len(ys) == 0 {
		return nil
	}
	lo, hi := ys[0], ys[0]
	for _, y := range ys[1:] {
		lo = min(lo, y)
		hi = max(hi, y)
	}
	if lo != hi {
		return nil
	}
	return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}
