package model

import "fmt"

// Axis is one of the two independent selector dimensions.
type Axis int

const (
	AxisCategory Axis = iota
	AxisGroup
)

func (a Axis) String() string {
	switch a {
	case AxisCategory:
		return "category"
	case AxisGroup:
		return "group"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// ParseAxis maps "category"/"group" to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "category":
		return AxisCategory, nil
	case "group":
		return AxisGroup, nil
	}
	return 0, fmt.Errorf("unknown axis: %q", s)
}

// Option is a selectable (label, key) pair for one axis.
type Option struct {
	Label string `json:"label"`
	Key   string `json:"value"`
}

// Selection holds the current selector values. nil means unset.
type Selection struct {
	Category *string `json:"category"`
	Group    *string `json:"group"`
}

// Complete reports whether both axes are set.
func (s Selection) Complete() bool {
	return s.Category != nil && s.Group != nil
}

// Clone returns a deep copy so callers cannot alias controller state.
func (s Selection) Clone() Selection {
	var out Selection
	if s.Category != nil {
		c := *s.Category
		out.Category = &c
	}
	if s.Group != nil {
		g := *s.Group
		out.Group = &g
	}
	return out
}
