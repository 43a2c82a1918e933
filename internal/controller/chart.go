package controller

import (
	"sort"

	"gss-dashboard/internal/model"
	"gss-dashboard/pkg/utils"
)

// defaultColors is the series palette, assigned by series index.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// sexColors keeps the red/blue mapping of the static bar chart.
var sexColors = map[string]string{
	"female": "#FF0000",
	"male":   "#0000FF",
}

// ChartMeta carries the titles of a grouped bar chart.
type ChartMeta struct {
	Title      string
	XAxis      string
	YAxis      string
	GroupBySex bool
}

// DefaultMeta is used by the interactive bar chart.
var DefaultMeta = ChartMeta{
	Title: "Level of Agreement to Traditional Values",
	XAxis: "Level of Agreement",
	YAxis: "Number of Responses",
}

// BuildChart partitions view by group value into series on a shared category
// axis. view must be ordered by (group, category), as Aggregate returns it.
func BuildChart(view []model.AggregateRow, meta ChartMeta) model.ChartSpec {
	spec := model.ChartSpec{
		ChartType:  "bar",
		BarMode:    "group",
		Title:      meta.Title,
		XAxis:      meta.XAxis,
		YAxis:      meta.YAxis,
		Categories: []string{},
		Series:     []model.Series{},
		ShowLegend: true,
	}

	seen := make(map[string]bool)
	for _, row := range view {
		if !seen[row.Category] {
			seen[row.Category] = true
			spec.Categories = append(spec.Categories, row.Category)
		}
		n := len(spec.Series)
		if n == 0 || spec.Series[n-1].Name != row.Group {
			spec.Series = append(spec.Series, model.Series{Name: row.Group, Points: []model.Point{}})
			n++
		}
		spec.Series[n-1].Points = append(spec.Series[n-1].Points, model.Point{
			Category: row.Category,
			Value:    float64(row.Count),
		})
	}
	sort.Slice(spec.Categories, func(i, j int) bool {
		return utils.NaturalLess(spec.Categories[i], spec.Categories[j])
	})

	for i := range spec.Series {
		spec.Series[i].Color = defaultColors[i%len(defaultColors)]
		if meta.GroupBySex {
			if c, ok := sexColors[spec.Series[i].Name]; ok {
				spec.Series[i].Color = c
			}
		}
	}
	return spec
}
