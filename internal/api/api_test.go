package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gss-dashboard/internal/api/handler"
	"gss-dashboard/internal/dataset"
	"gss-dashboard/internal/figures"
	"gss-dashboard/internal/model"
	"gss-dashboard/internal/options"
	"gss-dashboard/internal/session"
	"gss-dashboard/internal/store"
	"gss-dashboard/pkg/router"
)

func testData() *dataset.Dataset {
	rows := []struct{ sex, satjob, region string }{
		{"male", "very satisfied", "pacific"},
		{"male", "very satisfied", "new england"},
		{"female", "mod. satisfied", "pacific"},
		{"female", "very satisfied", "pacific"},
		{"male", "mod. satisfied", ""},
	}
	var records []model.Record
	for i, r := range rows {
		rec := model.NewRecord()
		rec.Numbers["income"] = float64(20000 + 5000*i)
		rec.Numbers["job_prestige"] = float64(30 + 7*i)
		rec.Values["sex"] = r.sex
		rec.Values["satjob"] = r.satjob
		if r.region != "" {
			rec.Values["region"] = r.region
		}
		records = append(records, rec)
	}
	return dataset.New(records)
}

type testServer struct {
	srv   *httptest.Server
	store *store.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st, err := store.Open("file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ds := testData()
	reg := options.Default()
	h := handler.New(handler.Deps{
		Sessions: session.NewManager(ds, reg, st, nil),
		Registry: reg,
		Figures:  figures.Build(ds, figures.DefaultOptions),
		Stats:    model.LoadStats{RowsRead: ds.Len()},
		Events:   st,
	})
	r := router.New(nil)
	RegisterRoutes(r, h)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, store: st}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequestWithContext(context.Background(), method, ts.srv.URL+path, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (ts *testServer) newSession(t *testing.T) string {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[handler.CreateSessionResponse](t, resp)
	require.NotEmpty(t, created.ID)
	return created.ID
}

func value(s string) handler.ChangeRequest { return handler.ChangeRequest{Value: &s} }

func TestOptionsAndHealth(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/api/v1/options", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	opts := decode[handler.OptionsResponse](t, resp)
	assert.Len(t, opts.Category, 5)
	assert.Len(t, opts.Group, 3)
	assert.Equal(t, model.Option{Label: "Sex", Key: "sex"}, opts.Group[0])

	resp = ts.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	health := decode[handler.HealthResponse](t, resp)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 5, health.Rows)
}

func TestSelectionFlow(t *testing.T) {
	ts := newTestServer(t)
	id := ts.newSession(t)
	base := "/api/v1/sessions/" + id

	resp := ts.do(t, http.MethodGet, base+"/chart", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode, "no chart before both selectors are set")

	resp = ts.do(t, http.MethodPut, base+"/category", value("job_satisfaction"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[model.Outcome](t, resp)
	assert.True(t, out.Accepted)
	assert.False(t, out.Rendered)

	resp = ts.do(t, http.MethodPut, base+"/group", value("sex"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out = decode[model.Outcome](t, resp)
	assert.True(t, out.Accepted)
	assert.True(t, out.Rendered)

	resp = ts.do(t, http.MethodGet, base+"/chart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	spec := decode[model.ChartSpec](t, resp)
	assert.Equal(t, []string{"mod. satisfied", "very satisfied"}, spec.Categories)
	require.Len(t, spec.Series, 2)
	assert.Equal(t, "female", spec.Series[0].Name)
	assert.Equal(t, 5.0, spec.Series[0].Total()+spec.Series[1].Total())

	resp = ts.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decode[session.Snapshot](t, resp)
	require.NotNil(t, snap.Chart)
	assert.Equal(t, "sex", *snap.Selection.Group)
	assert.Equal(t, 1, snap.Renders)
}

func TestRejectedOptionKeepsChart(t *testing.T) {
	ts := newTestServer(t)
	id := ts.newSession(t)
	base := "/api/v1/sessions/" + id

	ts.do(t, http.MethodPut, base+"/category", value("job_satisfaction"))
	ts.do(t, http.MethodPut, base+"/group", value("sex"))

	resp := ts.do(t, http.MethodPut, base+"/group", value("income"))
	require.Equal(t, http.StatusOK, resp.StatusCode, "rejected values are not HTTP errors")
	out := decode[model.Outcome](t, resp)
	assert.False(t, out.Accepted)
	assert.NotEmpty(t, out.Reason)
	assert.Equal(t, "sex", *out.Selection.Group)

	resp = ts.do(t, http.MethodGet, base+"/chart", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClearKeepsLastChart(t *testing.T) {
	ts := newTestServer(t)
	id := ts.newSession(t)
	base := "/api/v1/sessions/" + id

	ts.do(t, http.MethodPut, base+"/category", value("job_satisfaction"))
	ts.do(t, http.MethodPut, base+"/group", value("region"))

	resp := ts.do(t, http.MethodPut, base+"/group", handler.ChangeRequest{})
	out := decode[model.Outcome](t, resp)
	assert.True(t, out.Accepted)
	assert.False(t, out.Rendered)
	assert.Nil(t, out.Selection.Group)

	resp = ts.do(t, http.MethodGet, base+"/chart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	spec := decode[model.ChartSpec](t, resp)
	assert.Equal(t, []string{"new england", "pacific"}, []string{spec.Series[0].Name, spec.Series[1].Name})
}

func TestChartImages(t *testing.T) {
	ts := newTestServer(t)
	id := ts.newSession(t)
	base := "/api/v1/sessions/" + id

	resp := ts.do(t, http.MethodGet, base+"/chart.svg", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "placeholder before a chart exists")
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))

	ts.do(t, http.MethodPut, base+"/category", value("job_satisfaction"))
	ts.do(t, http.MethodPut, base+"/group", value("sex"))

	resp = ts.do(t, http.MethodGet, base+"/chart.png", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	resp = ts.do(t, http.MethodGet, "/api/v1/figures/bar.svg", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
}

func TestEventsAndDelete(t *testing.T) {
	ts := newTestServer(t)
	id := ts.newSession(t)
	base := "/api/v1/sessions/" + id

	ts.do(t, http.MethodPut, base+"/category", value("job_satisfaction"))
	ts.do(t, http.MethodPut, base+"/group", value("bogus"))

	resp := ts.do(t, http.MethodGet, base+"/events", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	events := decode[[]model.SessionEvent](t, resp)
	require.Len(t, events, 2)
	assert.Equal(t, "category", events[0].Axis)
	assert.True(t, events[0].Accepted)
	assert.False(t, events[1].Accepted)

	resp = ts.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = ts.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = ts.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRequestErrors(t *testing.T) {
	ts := newTestServer(t)
	id := ts.newSession(t)

	req, err := http.NewRequest(http.MethodPut, ts.srv.URL+"/api/v1/sessions/"+id+"/category", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, http.MethodPut, "/api/v1/sessions/missing/category", value("job_satisfaction"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = ts.do(t, http.MethodGet, "/api/v1/sessions/missing/chart", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = ts.do(t, http.MethodPost, "/api/v1/options", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestPage(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	var body bytes.Buffer
	_, err := body.ReadFrom(resp.Body)
	require.NoError(t, err)
	page := body.String()
	assert.Contains(t, page, `<option value="job_satisfaction">`)
	assert.Contains(t, page, `<option value="education">`)
	assert.Contains(t, page, `<a href="https://www.epi.org`, "introduction rendered from markdown")
	assert.NotContains(t, page, "[Economic Policy Institute](")
	for _, src := range []string{"bar", "scatter", "income-box", "prestige-box", "faceted-box"} {
		assert.Contains(t, page, `<img src="/api/v1/figures/`+src+`.svg"`)
	}
}

func TestFigureImages(t *testing.T) {
	ts := newTestServer(t)

	for _, name := range []string{"bar", "scatter", "income-box", "prestige-box", "faceted-box"} {
		t.Run(name, func(t *testing.T) {
			resp := ts.do(t, http.MethodGet, "/api/v1/figures/"+name+".svg", nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
			var body bytes.Buffer
			_, err := body.ReadFrom(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, body.String(), "<svg")
		})
	}
}
