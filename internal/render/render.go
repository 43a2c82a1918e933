// Package render draws chart specs and the static figures as SVG or PNG.
package render

import (
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"gss-dashboard/internal/model"
)

// Format is an output image format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

const (
	defaultWidth  = 800
	defaultHeight = 500
)

// Write renders spec in the given format.
func Write(w io.Writer, spec model.ChartSpec, format Format) error {
	switch format {
	case FormatSVG:
		return SVG(w, spec)
	case FormatPNG:
		return PNG(w, spec)
	}
	return fmt.Errorf("unsupported format %q", format)
}

func providerFor(format Format) (chart.RendererProvider, error) {
	switch format {
	case FormatSVG:
		return chart.SVG, nil
	case FormatPNG:
		return chart.PNG, nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// SVG renders spec as SVG.
func SVG(w io.Writer, spec model.ChartSpec) error {
	return barChart(spec).Render(chart.SVG, w)
}

// PNG renders spec as PNG.
func PNG(w io.Writer, spec model.ChartSpec) error {
	return barChart(spec).Render(chart.PNG, w)
}

// barChart lays bars out category by category, one bar per series that has
// a value for that category. An empty spec draws a single blank slot so the
// chart still renders.
func barChart(spec model.ChartSpec) chart.BarChart {
	var bars []chart.Value
	maxValue := 0.0
	for _, category := range spec.Categories {
		for _, s := range spec.Series {
			v, ok := valueFor(s, category)
			if !ok {
				continue
			}
			maxValue = math.Max(maxValue, v)
			bars = append(bars, chart.Value{
				Label: barLabel(category, s.Name, len(spec.Series)),
				Value: v,
				Style: chart.Style{
					FillColor:   colorOf(s.Color),
					StrokeColor: colorOf(s.Color),
					StrokeWidth: 1,
				},
			})
		}
	}
	if len(bars) == 0 {
		bars = []chart.Value{{Label: "no data", Value: 0}}
	}

	return chart.BarChart{
		Title:      spec.Title,
		Width:      defaultWidth,
		Height:     defaultHeight,
		BarWidth:   barWidth(len(bars)),
		BarSpacing: 4,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Name:  spec.YAxis,
			Range: &chart.ContinuousRange{Min: 0, Max: yMax(maxValue)},
		},
		Bars: bars,
	}
}

func valueFor(s model.Series, category string) (float64, bool) {
	for _, p := range s.Points {
		if p.Category == category {
			return p.Value, true
		}
	}
	return 0, false
}

func barLabel(category, series string, seriesCount int) string {
	if seriesCount <= 1 {
		return category
	}
	return category + " / " + series
}

func barWidth(n int) int {
	w := (defaultWidth - 100) / n
	switch {
	case w > 60:
		return 60
	case w < 4:
		return 4
	}
	return w - 4
}

func yMax(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return math.Ceil(v * 1.1)
}

func colorOf(hex string) drawing.Color {
	if hex == "" {
		return chart.ColorBlue
	}
	return drawing.ColorFromHex(trimHash(hex))
}

func trimHash(s string) string {
	if len(s) > 0 && s[0] == '#' {
		return s[1:]
	}
	return s
}
