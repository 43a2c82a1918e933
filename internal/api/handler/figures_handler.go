package handler

import (
	"bytes"
	"io"
	"net/http"

	"go.uber.org/zap"

	"gss-dashboard/internal/figures"
	"gss-dashboard/internal/model"
	"gss-dashboard/internal/render"
)

// GetFigures returns the static figures
// @Summary Static figures
// @Description Get the summary table, breadwinner bar chart, scatter, box plots and state map
// @Tags figures
// @Produce json
// @Success 200 {object} figures.Dashboard
// @Router /figures [get]
func (h *Handler) GetFigures(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.figures)
}

// GetBreadwinnerSVG renders the static breadwinner bar chart
// @Summary Breadwinner bar chart
// @Tags figures
// @Produce image/svg+xml
// @Success 200 {file} binary
// @Router /figures/bar.svg [get]
func (h *Handler) GetBreadwinnerSVG(w http.ResponseWriter, r *http.Request) {
	h.writeImage(w, h.figures.Breadwinner, render.FormatSVG)
}

// GetScatterSVG renders the prestige/income scatter with trendlines
// @Summary Prestige and income scatter
// @Tags figures
// @Produce image/svg+xml
// @Success 200 {file} binary
// @Router /figures/scatter.svg [get]
func (h *Handler) GetScatterSVG(w http.ResponseWriter, r *http.Request) {
	h.writeFigure(w, func(out io.Writer) error {
		return render.Scatter(out, h.figures.Scatter, render.FormatSVG)
	})
}

// GetIncomeBoxSVG renders income by sex
// @Summary Income box plot
// @Tags figures
// @Produce image/svg+xml
// @Success 200 {file} binary
// @Router /figures/income-box.svg [get]
func (h *Handler) GetIncomeBoxSVG(w http.ResponseWriter, r *http.Request) {
	h.writeBoxPlot(w, h.figures.IncomeBox)
}

// GetPrestigeBoxSVG renders job prestige by sex
// @Summary Prestige box plot
// @Tags figures
// @Produce image/svg+xml
// @Success 200 {file} binary
// @Router /figures/prestige-box.svg [get]
func (h *Handler) GetPrestigeBoxSVG(w http.ResponseWriter, r *http.Request) {
	h.writeBoxPlot(w, h.figures.PrestigeBox)
}

// GetFacetedBoxSVG renders income by sex within prestige bins
// @Summary Faceted income box plot
// @Tags figures
// @Produce image/svg+xml
// @Success 200 {file} binary
// @Router /figures/faceted-box.svg [get]
func (h *Handler) GetFacetedBoxSVG(w http.ResponseWriter, r *http.Request) {
	h.writeFigure(w, func(out io.Writer) error {
		return render.FacetedBoxPlot(out, h.figures.FacetedBox, render.FormatSVG)
	})
}

func (h *Handler) writeBoxPlot(w http.ResponseWriter, bp figures.BoxPlot) {
	h.writeFigure(w, func(out io.Writer) error {
		return render.BoxPlot(out, bp, render.FormatSVG)
	})
}

func (h *Handler) writeFigure(w http.ResponseWriter, draw func(io.Writer) error) {
	h.writeRendered(w, render.FormatSVG, draw)
}

func (h *Handler) writeImage(w http.ResponseWriter, spec model.ChartSpec, format render.Format) {
	h.writeRendered(w, format, func(out io.Writer) error {
		return render.Write(out, spec, format)
	})
}

// writeRendered buffers the rendering so a failure can still produce a 500.
func (h *Handler) writeRendered(w http.ResponseWriter, format render.Format, draw func(io.Writer) error) {
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		h.logger.Error("failed to render chart", zap.String("format", string(format)), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}
