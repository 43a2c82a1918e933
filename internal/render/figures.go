package render

import (
	"io"
	"math"
	"sort"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"gss-dashboard/internal/figures"
)

var groupColors = map[string]string{
	"female": "#FF0000",
	"male":   "#0000FF",
}

var fallbackColors = []string{"#4F46E5", "#10B981", "#F59E0B", "#8B5CF6"}

func groupColor(group string, i int) drawing.Color {
	if c, ok := groupColors[group]; ok {
		return colorOf(c)
	}
	return colorOf(fallbackColors[i%len(fallbackColors)])
}

// Scatter renders a scatter chart with one dot series and one trendline per
// group.
func Scatter(w io.Writer, s figures.Scatter, format Format) error {
	return draw(w, scatterChart(s), format)
}

// BoxPlot renders one box per group.
func BoxPlot(w io.Writer, bp figures.BoxPlot, format Format) error {
	return draw(w, boxPlotChart(bp), format)
}

// FacetedBoxPlot renders every facet side by side, one tick per facet.
func FacetedBoxPlot(w io.Writer, fb figures.FacetedBoxPlot, format Format) error {
	return draw(w, facetedChart(fb), format)
}

func draw(w io.Writer, c chart.Chart, format Format) error {
	provider, err := providerFor(format)
	if err != nil {
		return err
	}
	return c.Render(provider, w)
}

func scatterChart(s figures.Scatter) chart.Chart {
	byGroup := make(map[string]*chart.ContinuousSeries)
	var xb, yb bounds
	for _, p := range s.Points {
		cs, ok := byGroup[p.Group]
		if !ok {
			cs = &chart.ContinuousSeries{Name: p.Group}
			byGroup[p.Group] = cs
		}
		cs.XValues = append(cs.XValues, p.X)
		cs.YValues = append(cs.YValues, p.Y)
		xb.add(p.X)
		yb.add(p.Y)
	}
	groups := make([]string, 0, len(byGroup))
	for g := range byGroup {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	colors := make(map[string]drawing.Color, len(groups))
	var series []chart.Series
	for i, g := range groups {
		colors[g] = groupColor(g, i)
		cs := byGroup[g]
		cs.Style = chart.Style{StrokeWidth: chart.Disabled, DotWidth: 3, DotColor: colors[g]}
		series = append(series, *cs)
	}
	for _, tl := range s.Trendlines {
		c, ok := colors[tl.Group]
		if !ok {
			continue
		}
		y0, y1 := tl.Intercept+tl.Slope*tl.MinX, tl.Intercept+tl.Slope*tl.MaxX
		yb.add(y0)
		yb.add(y1)
		series = append(series, chart.ContinuousSeries{
			Name:    tl.Group + " trend",
			XValues: []float64{tl.MinX, tl.MaxX},
			YValues: []float64{y0, y1},
			Style:   chart.Style{StrokeColor: c, StrokeWidth: 2},
		})
	}

	c := baseChart(s.Title)
	c.XAxis = chart.XAxis{Name: s.XAxis, Range: xb.continuous()}
	c.YAxis = chart.YAxis{Name: s.YAxis, Range: yb.continuous()}
	if len(series) == 0 {
		c.Series = []chart.Series{placeholder()}
		return c
	}
	c.Series = series
	c.Elements = []chart.Renderable{chart.Legend(&c)}
	return c
}

// boxSlot is one box at position x on the category axis.
type boxSlot struct {
	x     float64
	width float64
	stats figures.BoxStats
	color drawing.Color
}

func boxPlotChart(bp figures.BoxPlot) chart.Chart {
	slots := make([]boxSlot, 0, len(bp.Boxes))
	ticks := make([]chart.Tick, 0, len(bp.Boxes))
	for i, b := range bp.Boxes {
		x := float64(i)
		slots = append(slots, boxSlot{x: x, width: 0.25, stats: b.Stats, color: groupColor(b.Group, i)})
		ticks = append(ticks, chart.Tick{Value: x, Label: b.Group})
	}
	return boxChart(bp.Title, bp.XAxis, bp.YAxis, slots, ticks, len(bp.Boxes))
}

func facetedChart(fb figures.FacetedBoxPlot) chart.Chart {
	var slots []boxSlot
	ticks := make([]chart.Tick, 0, len(fb.Facets))
	for i, f := range fb.Facets {
		center := float64(i)
		ticks = append(ticks, chart.Tick{Value: center, Label: f.Label})
		k := len(f.Boxes)
		for j, b := range f.Boxes {
			offset := (float64(j) - float64(k-1)/2) * 0.3
			slots = append(slots, boxSlot{x: center + offset, width: 0.12, stats: b.Stats, color: groupColor(b.Group, j)})
		}
	}
	return boxChart(fb.Title, fb.Facet, fb.YAxis, slots, ticks, len(fb.Facets))
}

// boxChart draws whiskers, the interquartile box and the median of each slot
// as line segments. positions is the number of tick positions from 0.
func boxChart(title, xName, yName string, slots []boxSlot, ticks []chart.Tick, positions int) chart.Chart {
	var series []chart.Series
	var yb bounds
	for _, s := range slots {
		st := s.stats
		if st.Count == 0 {
			continue
		}
		yb.add(st.Min)
		yb.add(st.Max)
		line := chart.Style{StrokeColor: s.color, StrokeWidth: 1.5}
		l, r := s.x-s.width/2, s.x+s.width/2
		series = append(series,
			chart.ContinuousSeries{XValues: []float64{s.x, s.x}, YValues: []float64{st.Min, st.Q1}, Style: line},
			chart.ContinuousSeries{XValues: []float64{s.x, s.x}, YValues: []float64{st.Q3, st.Max}, Style: line},
			chart.ContinuousSeries{
				XValues: []float64{l, r, r, l, l},
				YValues: []float64{st.Q1, st.Q1, st.Q3, st.Q3, st.Q1},
				Style:   line,
			},
			chart.ContinuousSeries{
				XValues: []float64{l, r},
				YValues: []float64{st.Median, st.Median},
				Style:   chart.Style{StrokeColor: s.color, StrokeWidth: 3},
			},
		)
	}

	// Ticks set the x range, so pad it with unlabelled edge ticks.
	edges := []chart.Tick{{Value: -0.5}}
	edges = append(edges, ticks...)
	edges = append(edges, chart.Tick{Value: math.Max(float64(positions)-0.5, 0.5)})

	c := baseChart(title)
	c.XAxis = chart.XAxis{Name: xName, Ticks: edges}
	c.YAxis = chart.YAxis{Name: yName, Range: yb.continuous()}
	c.Series = series
	if len(series) == 0 {
		c.Series = []chart.Series{placeholder()}
	}
	return c
}

func baseChart(title string) chart.Chart {
	return chart.Chart{
		Title:  title,
		Width:  defaultWidth,
		Height: defaultHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
	}
}

// placeholder is a visible series that draws nothing, so empty figures
// still render their axes.
func placeholder() chart.ContinuousSeries {
	return chart.ContinuousSeries{
		XValues: []float64{0},
		YValues: []float64{0},
		Style:   chart.Style{StrokeWidth: chart.Disabled},
	}
}

type bounds struct {
	min, max float64
	set      bool
}

func (b *bounds) add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if !b.set {
		b.min, b.max, b.set = v, v, true
		return
	}
	b.min, b.max = math.Min(b.min, v), math.Max(b.max, v)
}

// continuous pads the observed range by 5%; an empty range is [0, 1].
func (b bounds) continuous() *chart.ContinuousRange {
	if !b.set {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	pad := (b.max - b.min) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(b.max)*0.05, 1)
	}
	return &chart.ContinuousRange{Min: b.min - pad, Max: b.max + pad}
}
