// Package figures builds the static charts of the dashboard page from the
// loaded dataset.
package figures

import (
	"fmt"
	"math"
	"sort"

	"gss-dashboard/internal/controller"
	"gss-dashboard/internal/dataset"
	"gss-dashboard/internal/model"
	"gss-dashboard/pkg/utils"
)

// Options tunes the figures that take parameters.
type Options struct {
	ScatterLimit int // leading records considered by the scatter
	PrestigeBins int // equal-width bins of the faceted box plot
}

// DefaultOptions matches the published dashboard.
var DefaultOptions = Options{ScatterLimit: 200, PrestigeBins: 6}

var sexLabels = map[string]string{"male": "Men", "female": "Women"}

// Build computes every static figure.
func Build(ds *dataset.Dataset, opts Options) Dashboard {
	if opts.ScatterLimit <= 0 {
		opts.ScatterLimit = DefaultOptions.ScatterLimit
	}
	if opts.PrestigeBins <= 0 {
		opts.PrestigeBins = DefaultOptions.PrestigeBins
	}
	return Dashboard{
		Introduction: Introduction,
		Summary:      SummaryTable(ds),
		Breadwinner:  BreadwinnerBar(ds),
		Scatter:      PrestigeIncomeScatter(ds, opts.ScatterLimit),
		IncomeBox:    BoxBySex(ds, "income", "Personal Annual Income"),
		PrestigeBox:  BoxBySex(ds, "job_prestige", "Job Prestige"),
		FacetedBox:   FacetedIncomeBox(ds, opts.PrestigeBins),
		StateMap:     StateIncomeMap(ds),
	}
}

var summaryColumns = []struct {
	column string
	label  string
}{
	{"income", "Ave. Income"},
	{"job_prestige", "Job Prestige"},
	{"socioeconomic_index", "Socioeconomic"},
	{"education", "Education (Yrs)"},
}

// SummaryTable compares mean income, prestige, socioeconomic index and years
// of education by sex. Missing cells are skipped per column.
func SummaryTable(ds *dataset.Dataset) Table {
	values := make(map[string]map[string][]float64)
	for _, r := range ds.Records() {
		sex, ok := r.Value("sex")
		if !ok {
			continue
		}
		if values[sex] == nil {
			values[sex] = make(map[string][]float64)
		}
		for _, c := range summaryColumns {
			if v, ok := r.Number(c.column); ok {
				values[sex][c.column] = append(values[sex][c.column], v)
			}
		}
	}

	t := Table{
		Title:   "Comparing Mean Income, Occupational Prestige, Socioeconomic Index, and Year of Education by Sex",
		Columns: []string{"Sex"},
		Rows:    [][]string{},
	}
	for _, c := range summaryColumns {
		t.Columns = append(t.Columns, c.label)
	}
	for _, sex := range sortedKeys(values) {
		label := sex
		if l, ok := sexLabels[sex]; ok {
			label = l
		}
		row := []string{label}
		for _, c := range summaryColumns {
			row = append(row, formatMean(values[sex][c.column]))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func formatMean(xs []float64) string {
	m := mean(xs)
	if math.IsNaN(m) {
		return ""
	}
	return fmt.Sprintf("%.2f", utils.RoundTo(m, 2))
}

// BreadwinnerBar counts agreement with the male breadwinner item by sex.
func BreadwinnerBar(ds *dataset.Dataset) model.ChartSpec {
	view := controller.Aggregate(ds.Records(), "sex", "male_breadwinner")
	return controller.BuildChart(view, controller.ChartMeta{
		Title:      "Level of Agreement to Male Breadwinner by Sex",
		XAxis:      "Level of Agreement",
		YAxis:      "Number of Responses",
		GroupBySex: true,
	})
}

// PrestigeIncomeScatter plots income against occupational prestige for the
// first limit records, with an OLS trendline per sex.
func PrestigeIncomeScatter(ds *dataset.Dataset, limit int) Scatter {
	s := Scatter{
		Title:      "Relationship Between Job Prestige and Income",
		XAxis:      "Occupational Prestige",
		YAxis:      "Personal Annual Income",
		Points:     []ScatterPoint{},
		Trendlines: []Trendline{},
	}
	records := ds.Records()
	if limit < len(records) {
		records = records[:limit]
	}

	xs := make(map[string][]float64)
	ys := make(map[string][]float64)
	for _, r := range records {
		x, okX := r.Number("job_prestige")
		y, okY := r.Number("income")
		sex, okS := r.Value("sex")
		if !okX || !okY || !okS {
			continue
		}
		p := ScatterPoint{X: x, Y: y, Group: sex}
		if v, ok := r.Number("education"); ok {
			p.Education = &v
		}
		if v, ok := r.Number("socioeconomic_index"); ok {
			p.SocioeconomicIndex = &v
		}
		s.Points = append(s.Points, p)
		xs[sex] = append(xs[sex], x)
		ys[sex] = append(ys[sex], y)
	}

	for _, sex := range sortedKeys(xs) {
		slope, intercept, ok := ols(xs[sex], ys[sex])
		if !ok {
			continue
		}
		sorted := append([]float64(nil), xs[sex]...)
		sort.Float64s(sorted)
		s.Trendlines = append(s.Trendlines, Trendline{
			Group:     sex,
			Slope:     slope,
			Intercept: intercept,
			MinX:      sorted[0],
			MaxX:      sorted[len(sorted)-1],
			N:         len(sorted),
		})
	}
	return s
}

// BoxBySex summarises column per sex.
func BoxBySex(ds *dataset.Dataset, column, label string) BoxPlot {
	values := make(map[string][]float64)
	for _, r := range ds.Records() {
		sex, okS := r.Value("sex")
		v, okV := r.Number(column)
		if okS && okV {
			values[sex] = append(values[sex], v)
		}
	}
	bp := BoxPlot{
		Title: label + " by Sex",
		XAxis: "Sex",
		YAxis: label,
		Boxes: []Box{},
	}
	for _, sex := range sortedKeys(values) {
		bp.Boxes = append(bp.Boxes, Box{Group: sex, Stats: fiveNumber(values[sex])})
	}
	return bp
}

// FacetedIncomeBox cuts job prestige into equal-width bins and summarises
// income per sex within each bin. Records missing any of the three values
// are dropped.
func FacetedIncomeBox(ds *dataset.Dataset, bins int) FacetedBoxPlot {
	fb := FacetedBoxPlot{
		Title:   "Income vs Occupational Prestige by Sex",
		Facet:   "Occupational Prestige",
		YAxis:   "Income",
		Columns: 2,
		Facets:  []Facet{},
	}

	type row struct {
		sex      string
		prestige float64
		income   float64
	}
	var rows []row
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range ds.Records() {
		sex, okS := r.Value("sex")
		p, okP := r.Number("job_prestige")
		inc, okI := r.Number("income")
		if !okS || !okP || !okI {
			continue
		}
		rows = append(rows, row{sex: sex, prestige: p, income: inc})
		lo, hi = math.Min(lo, p), math.Max(hi, p)
	}
	if len(rows) == 0 {
		return fb
	}

	edges := equalWidthEdges(lo, hi, bins)
	incomes := make([]map[string][]float64, len(edges)-1)
	for i := range incomes {
		incomes[i] = make(map[string][]float64)
	}
	for _, r := range rows {
		if i := binIndex(edges, r.prestige); i >= 0 {
			incomes[i][r.sex] = append(incomes[i][r.sex], r.income)
		}
	}
	for i := range incomes {
		f := Facet{
			Label: fmt.Sprintf("(%.3f, %.3f]", edges[i], edges[i+1]),
			Lower: edges[i],
			Upper: edges[i+1],
			Boxes: []Box{},
		}
		for _, sex := range sortedKeys(incomes[i]) {
			f.Boxes = append(f.Boxes, Box{Group: sex, Stats: fiveNumber(incomes[i][sex])})
		}
		fb.Facets = append(fb.Facets, f)
	}
	return fb
}

// StateIncomeMap reports respondents, mean income and the men-minus-women
// income gap per assigned state.
func StateIncomeMap(ds *dataset.Dataset) StateMap {
	type acc struct {
		n     int
		all   []float64
		bySex map[string][]float64
	}
	states := make(map[string]*acc)
	for _, r := range ds.Records() {
		st, ok := r.Value("state")
		if !ok {
			continue
		}
		a := states[st]
		if a == nil {
			a = &acc{bySex: make(map[string][]float64)}
			states[st] = a
		}
		a.n++
		inc, ok := r.Number("income")
		if !ok {
			continue
		}
		a.all = append(a.all, inc)
		if sex, ok := r.Value("sex"); ok {
			a.bySex[sex] = append(a.bySex[sex], inc)
		}
	}

	m := StateMap{
		Title:        "Difference in Income between Men and Women by State",
		LocationMode: "USA-states",
		Scope:        "usa",
		ColorBy:      "gap",
		States:       []StateValue{},
	}
	for _, st := range sortedKeys(states) {
		a := states[st]
		v := StateValue{State: st, Respondents: a.n}
		if len(a.all) > 0 {
			mi := utils.RoundTo(mean(a.all), 2)
			v.MeanIncome = &mi
		}
		men, women := a.bySex["male"], a.bySex["female"]
		if len(men) > 0 && len(women) > 0 {
			gap := utils.RoundTo(mean(men)-mean(women), 2)
			v.Gap = &gap
		}
		m.States = append(m.States, v)
	}
	return m
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return utils.NaturalLess(keys[i], keys[j]) })
	return keys
}
