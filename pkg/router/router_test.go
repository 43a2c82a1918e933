package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func named(name string) HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(name))
	}
}

func TestMatchWildcardRoute(t *testing.T) {
	tests := []struct {
		path, pattern string
		want          bool
	}{
		{"/api/v1/sessions/abc", "/api/v1/sessions/*", true},
		{"/api/v1/sessions/abc/chart", "/api/v1/sessions/*", true},
		{"/api/v1/sessions", "/api/v1/sessions/*", false},
		{"/api/v1/sessions/", "/api/v1/sessions/*", false},
		{"/api/v1/sessions/abc/chart", "/api/v1/sessions/*/chart", true},
		{"/api/v1/sessions/abc/chart.svg", "/api/v1/sessions/*/chart", false},
		{"/api/v1/sessions/abc/x/chart", "/api/v1/sessions/*/chart", false},
		{"/swagger/index.html", "/swagger/*", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchWildcardRoute(tt.path, tt.pattern), "%s ~ %s", tt.path, tt.pattern)
	}
}

func TestDispatch(t *testing.T) {
	r := New(nil)
	r.GET("/healthz", named("health"))
	r.GET("/api/v1/sessions/*/chart", named("chart"))
	r.PUT("/api/v1/sessions/*/category", named("category"))
	r.GET("/api/v1/sessions/*", named("session"))
	r.DELETE("/api/v1/sessions/*", named("delete"))

	tests := []struct {
		method, path string
		status       int
		body         string
	}{
		{http.MethodGet, "/healthz", http.StatusOK, "health"},
		{http.MethodGet, "/api/v1/sessions/abc/chart", http.StatusOK, "chart"},
		{http.MethodPut, "/api/v1/sessions/abc/category", http.StatusOK, "category"},
		{http.MethodGet, "/api/v1/sessions/abc", http.StatusOK, "session"},
		{http.MethodDelete, "/api/v1/sessions/abc", http.StatusOK, "delete"},
		{http.MethodPost, "/healthz", http.StatusMethodNotAllowed, ""},
		{http.MethodPost, "/api/v1/sessions/abc", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/api/v1/sessions/abc/category", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/nope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRegisterTracksRoutes(t *testing.T) {
	r := New(nil)
	r.GET("/a", named("a"))
	r.POST("/a", named("a"))
	r.PATCH("/b/*", named("b"))

	assert.Len(t, r.Routes(), 3)
	assert.True(t, r.Paths()["/a"])
	assert.Equal(t, []string{"/b/*"}, r.patterns)
}

func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := New(zap.New(core))
	r.GET("/ok", named("ok"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "/missing", entries[1].ContextMap()["path"])
}

func TestSegment(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/abc/chart", nil)
	assert.Equal(t, "abc", Segment(req, 3))
	assert.Equal(t, "chart", Segment(req, 4))
	assert.Equal(t, "", Segment(req, 9))
}
