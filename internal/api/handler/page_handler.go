package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"gss-dashboard/internal/figures"
	"gss-dashboard/internal/model"
)

type stateRow struct {
	State       string
	Respondents int
	MeanIncome  string
	Gap         string
}

type pageData struct {
	Introduction template.HTML
	Summary      figures.Table
	StateTitle   string
	States       []stateRow
	Category     []model.Option
	Group        []model.Option
}

// Page serves the dashboard HTML.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Introduction: h.intro,
		Summary:      h.figures.Summary,
		StateTitle:   h.figures.StateMap.Title,
		States:       stateRows(h.figures.StateMap),
		Category:     h.registry.OptionsFor(model.AxisCategory),
		Group:        h.registry.OptionsFor(model.AxisGroup),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Execute(w, data); err != nil {
		h.logger.Error("failed to render page", zap.Error(err))
	}
}

// markdownToHTML converts the introduction once at startup. The text is
// compiled in, so its HTML is trusted.
func markdownToHTML(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func stateRows(m figures.StateMap) []stateRow {
	rows := make([]stateRow, 0, len(m.States))
	for _, s := range m.States {
		rows = append(rows, stateRow{
			State:       s.State,
			Respondents: s.Respondents,
			MeanIncome:  formatOptional(s.MeanIncome),
			Gap:         formatOptional(s.Gap),
		})
	}
	return rows
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Exploring the Gender Wage Gap</title>
<style>
body { font-family: sans-serif; margin: 2em auto; max-width: 960px; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 4px 8px; }
.controls { display: flex; gap: 2em; margin: 1em 0; }
</style>
</head>
<body>
<h1>Exploring the Gender Wage Gap</h1>
{{.Introduction}}
<h2>{{.Summary.Title}}</h2>
<table>
<tr>{{range .Summary.Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Summary.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>

<h2>Men Should Be the Breadwinner</h2>
<img src="/api/v1/figures/bar.svg" alt="breadwinner bar chart">

<h2>Job Prestige and Income</h2>
<img src="/api/v1/figures/scatter.svg" alt="prestige and income scatter">

<h2>Income and Prestige by Sex</h2>
<img src="/api/v1/figures/income-box.svg" alt="income box plot">
<img src="/api/v1/figures/prestige-box.svg" alt="prestige box plot">

<h2>Income by Sex within Prestige Bins</h2>
<img src="/api/v1/figures/faceted-box.svg" alt="faceted income box plot">

<h2>Level of Agreement to Traditional Values</h2>
<div class="controls">
<label>Category
<select id="category">
<option value="">--</option>
{{range .Category}}<option value="{{.Key}}">{{.Label}}</option>
{{end}}</select></label>
<label>Group
<select id="group">
<option value="">--</option>
{{range .Group}}<option value="{{.Key}}">{{.Label}}</option>
{{end}}</select></label>
</div>
<img id="chart" alt="grouped bar chart">

<h2>{{.StateTitle}}</h2>
<table>
<tr><th>State</th><th>Respondents</th><th>Mean Income</th><th>Gap (Men minus Women)</th></tr>
{{range .States}}<tr><td>{{.State}}</td><td>{{.Respondents}}</td><td>{{.MeanIncome}}</td><td>{{.Gap}}</td></tr>
{{end}}</table>
<p>All figure data is served as JSON from <a href="/api/v1/figures">/api/v1/figures</a>.</p>

<script>
(async function () {
  const res = await fetch("/api/v1/sessions", {method: "POST"});
  const {id} = await res.json();
  const base = "/api/v1/sessions/" + id;
  const chart = document.getElementById("chart");
  const refresh = () => { chart.src = base + "/chart.svg?t=" + Date.now(); };
  for (const axis of ["category", "group"]) {
    document.getElementById(axis).addEventListener("change", async (e) => {
      const value = e.target.value === "" ? null : e.target.value;
      const out = await fetch(base + "/" + axis, {
        method: "PUT",
        headers: {"Content-Type": "application/json"},
        body: JSON.stringify({value}),
      }).then(r => r.json());
      if (out.rendered) refresh();
    });
  }
  refresh();
})();
</script>
</body>
</html>
`
