package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	"gss-dashboard/internal/api/handler"
	"gss-dashboard/pkg/router"
)

func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.GET("/", h.Page)
	r.GET("/healthz", h.Health)
	r.GET("/api/v1/options", h.GetOptions)
	r.GET("/api/v1/figures", h.GetFigures)
	r.GET("/api/v1/figures/bar.svg", h.GetBreadwinnerSVG)
	r.GET("/api/v1/figures/scatter.svg", h.GetScatterSVG)
	r.GET("/api/v1/figures/income-box.svg", h.GetIncomeBoxSVG)
	r.GET("/api/v1/figures/prestige-box.svg", h.GetPrestigeBoxSVG)
	r.GET("/api/v1/figures/faceted-box.svg", h.GetFacetedBoxSVG)

	r.POST("/api/v1/sessions", h.CreateSession)
	// More specific routes first
	r.PUT("/api/v1/sessions/*/category", h.ChangeCategory)
	r.PUT("/api/v1/sessions/*/group", h.ChangeGroup)
	r.GET("/api/v1/sessions/*/chart", h.GetChart)
	r.GET("/api/v1/sessions/*/chart.svg", h.GetChartSVG)
	r.GET("/api/v1/sessions/*/chart.png", h.GetChartPNG)
	r.GET("/api/v1/sessions/*/events", h.GetEvents)
	// Generic session routes last
	r.GET("/api/v1/sessions/*", h.GetSession)
	r.DELETE("/api/v1/sessions/*", h.DeleteSession)

	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
