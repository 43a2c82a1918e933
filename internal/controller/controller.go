// Package controller implements the two-dropdown, cross-filtered grouped bar
// chart: it owns one session's Selection and recomputes the chart on every
// valid change.
package controller

import (
	"go.uber.org/zap"

	"gss-dashboard/internal/dataset"
	"gss-dashboard/internal/model"
	"gss-dashboard/internal/options"
)

// ReasonIncomplete is reported when an event leaves an axis unset.
const ReasonIncomplete = "selection incomplete"

// Renderer receives every emitted chart. It must replace, not merge, the
// previously displayed chart and must accept zero-series specs.
type Renderer interface {
	Render(spec model.ChartSpec)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(spec model.ChartSpec)

func (f RendererFunc) Render(spec model.ChartSpec) { f(spec) }

// Controller holds one Selection. It processes one event at a time and is not
// safe for concurrent use; callers serialise access per session.
type Controller struct {
	data     *dataset.Dataset
	registry *options.Registry
	renderer Renderer
	logger   *zap.Logger

	sel  model.Selection
	last *model.ChartSpec
}

// New returns a controller with both axes unset. renderer and logger may be nil.
func New(data *dataset.Dataset, registry *options.Registry, renderer Renderer, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = RendererFunc(func(model.ChartSpec) {})
	}
	return &Controller{
		data:     data,
		registry: registry,
		renderer: renderer,
		logger:   logger,
	}
}

// Selection returns a copy of the current selection.
func (c *Controller) Selection() model.Selection {
	return c.sel.Clone()
}

// Last returns the most recently emitted chart.
func (c *Controller) Last() (model.ChartSpec, bool) {
	if c.last == nil {
		return model.ChartSpec{}, false
	}
	return *c.last, true
}

// SetCategory selects key on the Category axis and recomputes. An unknown key
// returns options.ErrInvalidOption and leaves the selection unchanged.
func (c *Controller) SetCategory(key string) error {
	_, err := c.set(model.AxisCategory, key)
	return err
}

// SetGroup selects key on the Group axis and recomputes.
func (c *Controller) SetGroup(key string) error {
	_, err := c.set(model.AxisGroup, key)
	return err
}

// OnCategoryChanged handles a Category selector event. nil or "" clears the axis.
// Invalid keys are absorbed here and reported only in the Outcome.
func (c *Controller) OnCategoryChanged(key *string) model.Outcome {
	return c.onChanged(model.AxisCategory, key)
}

// OnGroupChanged handles a Group selector event.
func (c *Controller) OnGroupChanged(key *string) model.Outcome {
	return c.onChanged(model.AxisGroup, key)
}

func (c *Controller) onChanged(axis model.Axis, key *string) model.Outcome {
	if key == nil || *key == "" {
		c.clear(axis)
		_, rendered := c.emit()
		return c.outcome(true, rendered, ReasonIncomplete)
	}

	rendered, err := c.set(axis, *key)
	if err != nil {
		c.logger.Warn("rejected selector event",
			zap.Stringer("axis", axis),
			zap.String("value", *key),
			zap.Error(err))
		return c.outcome(false, false, err.Error())
	}
	reason := ""
	if !rendered {
		reason = ReasonIncomplete
	}
	return c.outcome(true, rendered, reason)
}

func (c *Controller) outcome(accepted, rendered bool, reason string) model.Outcome {
	return model.Outcome{
		Accepted:  accepted,
		Rendered:  rendered,
		Reason:    reason,
		Selection: c.Selection(),
	}
}

func (c *Controller) set(axis model.Axis, key string) (bool, error) {
	opt, err := c.registry.Resolve(axis, key)
	if err != nil {
		return false, err
	}
	v := opt.Key
	switch axis {
	case model.AxisCategory:
		c.sel.Category = &v
	case model.AxisGroup:
		c.sel.Group = &v
	}
	_, rendered := c.emit()
	return rendered, nil
}

func (c *Controller) clear(axis model.Axis) {
	switch axis {
	case model.AxisCategory:
		c.sel.Category = nil
	case model.AxisGroup:
		c.sel.Group = nil
	}
}

// emit recomputes and hands the chart to the renderer when one is produced.
func (c *Controller) emit() (model.ChartSpec, bool) {
	spec, ok := c.Recompute()
	if !ok {
		return spec, false
	}
	c.last = &spec
	c.renderer.Render(spec)
	return spec, true
}

// Recompute builds the chart for the current selection. It returns false and
// no chart while either axis is unset. It does not notify the renderer.
func (c *Controller) Recompute() (model.ChartSpec, bool) {
	view, ok := c.View()
	if !ok {
		return model.ChartSpec{}, false
	}
	meta := DefaultMeta
	meta.GroupBySex = *c.sel.Group == "sex"
	spec := BuildChart(view, meta)

	c.logger.Debug("recomputed chart",
		zap.String("category", *c.sel.Category),
		zap.String("group", *c.sel.Group),
		zap.Int("pairs", len(view)),
		zap.Int("series", len(spec.Series)))
	return spec, true
}

// View returns the aggregated view for the current selection: one row per
// observed (group, category) pair among records with both values present.
func (c *Controller) View() ([]model.AggregateRow, bool) {
	if !c.sel.Complete() {
		return nil, false
	}
	categoryCol, err := dataset.ColumnFor(model.AxisCategory, *c.sel.Category)
	if err != nil {
		c.logger.Error("category has no column", zap.Error(err))
		return nil, false
	}
	groupCol, err := dataset.ColumnFor(model.AxisGroup, *c.sel.Group)
	if err != nil {
		c.logger.Error("group has no column", zap.Error(err))
		return nil, false
	}
	return Aggregate(c.data.Records(), groupCol, categoryCol), true
}
