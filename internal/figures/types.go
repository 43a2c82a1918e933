package figures

import "gss-dashboard/internal/model"

// Table is a render-ready table.
type Table struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ScatterPoint is one respondent in the prestige/income scatter.
type ScatterPoint struct {
	X                  float64  `json:"x"`
	Y                  float64  `json:"y"`
	Group              string   `json:"group"`
	Education          *float64 `json:"education,omitempty"`
	SocioeconomicIndex *float64 `json:"socioeconomicIndex,omitempty"`
}

// Trendline is an OLS fit for one group.
type Trendline struct {
	Group     string  `json:"group"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	MinX      float64 `json:"minX"`
	MaxX      float64 `json:"maxX"`
	N         int     `json:"n"`
}

// Scatter is a scatter chart with per-group trendlines.
type Scatter struct {
	Title      string         `json:"title"`
	XAxis      string         `json:"xAxis"`
	YAxis      string         `json:"yAxis"`
	Points     []ScatterPoint `json:"points"`
	Trendlines []Trendline    `json:"trendlines"`
}

// BoxStats is a five-number summary.
type BoxStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Box is one box per group value.
type Box struct {
	Group string   `json:"group"`
	Stats BoxStats `json:"stats"`
}

// BoxPlot groups boxes on one axis.
type BoxPlot struct {
	Title string `json:"title"`
	XAxis string `json:"xAxis"`
	YAxis string `json:"yAxis"`
	Boxes []Box  `json:"boxes"`
}

// Facet is one panel in a faceted box plot.
type Facet struct {
	Label string  `json:"label"` // "(lo, hi]"
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Boxes []Box   `json:"boxes"`
}

// FacetedBoxPlot is a grid of box plots, one per bin.
type FacetedBoxPlot struct {
	Title   string  `json:"title"`
	Facet   string  `json:"facet"`
	YAxis   string  `json:"yAxis"`
	Columns int     `json:"columns"`
	Facets  []Facet `json:"facets"`
}

// StateValue is one state in the choropleth.
type StateValue struct {
	State       string   `json:"state"`
	Respondents int      `json:"respondents"`
	MeanIncome  *float64 `json:"meanIncome,omitempty"`
	Gap         *float64 `json:"gap,omitempty"` // men minus women mean income
}

// StateMap is choropleth data keyed by USPS state code.
type StateMap struct {
	Title        string       `json:"title"`
	LocationMode string       `json:"locationMode"`
	Scope        string       `json:"scope"`
	ColorBy      string       `json:"colorBy"`
	States       []StateValue `json:"states"`
}

// Dashboard bundles every static figure of the page.
type Dashboard struct {
	Introduction string          `json:"introduction"`
	Summary      Table           `json:"summary"`
	Breadwinner  model.ChartSpec `json:"breadwinner"`
	Scatter      Scatter         `json:"scatter"`
	IncomeBox    BoxPlot         `json:"incomeBox"`
	PrestigeBox  BoxPlot         `json:"prestigeBox"`
	FacetedBox   FacetedBoxPlot  `json:"facetedBox"`
	StateMap     StateMap        `json:"stateMap"`
}
