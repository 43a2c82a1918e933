package model

// ChartSpec is a render-agnostic description of a chart.
// The grouped bar chart places series side by side on a shared category axis.
type ChartSpec struct {
	ChartType  string   `json:"chartType"` // "bar"
	BarMode    string   `json:"barMode"`   // "group"
	Title      string   `json:"title"`
	XAxis      string   `json:"xAxis,omitempty"`
	YAxis      string   `json:"yAxis,omitempty"`
	Categories []string `json:"categories"`
	Series     []Series `json:"series"`
	ShowLegend bool     `json:"showLegend"`
}

// Series is one bar series, one per distinct group value.
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
}

// Point is one bar.
type Point struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// Total sums the values of a series.
func (s Series) Total() float64 {
	var n float64
	for _, p := range s.Points {
		n += p.Value
	}
	return n
}

// Empty reports whether the chart has no series.
func (c ChartSpec) Empty() bool {
	return len(c.Series) == 0
}
