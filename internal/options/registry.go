// Package options holds the fixed enumeration of selector options for the
// Category and Group axes.
package options

import (
	"errors"
	"fmt"

	"gss-dashboard/internal/model"
)

// ErrInvalidOption is returned when a key is not registered for an axis.
var ErrInvalidOption = errors.New("invalid option")

var categoryOptions = []model.Option{
	{Label: "Job Satisfaction", Key: "job_satisfaction"},
	{Label: "Relationship", Key: "relationship"},
	{Label: "Male Breadwinner", Key: "male_breadwinner"},
	{Label: "Men Work Women Stay", Key: "men_bettersuited"},
	{Label: "Child Suffer if Women Work", Key: "child_suffer"},
}

var groupOptions = []model.Option{
	{Label: "Sex", Key: "sex"},
	{Label: "Region", Key: "region"},
	{Label: "Education", Key: "education"},
}

// Registry maps option keys to options per axis. It is immutable after New.
type Registry struct {
	ordered map[model.Axis][]model.Option
	byKey   map[model.Axis]map[string]model.Option
}

// New builds a registry from the given option sets and validates it.
func New(category, group []model.Option) (*Registry, error) {
	r := &Registry{
		ordered: make(map[model.Axis][]model.Option, 2),
		byKey:   make(map[model.Axis]map[string]model.Option, 2),
	}
	if err := r.add(model.AxisCategory, category); err != nil {
		return nil, err
	}
	if err := r.add(model.AxisGroup, group); err != nil {
		return nil, err
	}
	for key := range r.byKey[model.AxisCategory] {
		if _, dup := r.byKey[model.AxisGroup][key]; dup {
			return nil, fmt.Errorf("option %q registered on both axes", key)
		}
	}
	return r, nil
}

func (r *Registry) add(axis model.Axis, opts []model.Option) error {
	if len(opts) == 0 {
		return fmt.Errorf("no options for axis %s", axis)
	}
	keys := make(map[string]model.Option, len(opts))
	for _, o := range opts {
		if o.Key == "" || o.Label == "" {
			return fmt.Errorf("axis %s: option with empty key or label", axis)
		}
		if _, dup := keys[o.Key]; dup {
			return fmt.Errorf("axis %s: duplicate option %q", axis, o.Key)
		}
		keys[o.Key] = o
	}
	r.ordered[axis] = append([]model.Option(nil), opts...)
	r.byKey[axis] = keys
	return nil
}

// Default returns the registry used by the dashboard.
func Default() *Registry {
	r, err := New(categoryOptions, groupOptions)
	if err != nil {
		panic(err)
	}
	return r
}

// OptionsFor returns the ordered options for axis.
func (r *Registry) OptionsFor(axis model.Axis) []model.Option {
	return append([]model.Option(nil), r.ordered[axis]...)
}

// Resolve looks up key on axis.
func (r *Registry) Resolve(axis model.Axis, key string) (model.Option, error) {
	o, ok := r.byKey[axis][key]
	if !ok {
		return model.Option{}, fmt.Errorf("%w: %s %q", ErrInvalidOption, axis, key)
	}
	return o, nil
}
