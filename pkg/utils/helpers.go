package utils

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses a duration string like "5m", falling back to def
// when the string is empty or malformed.
func ParseDuration(d string, def time.Duration) time.Duration {
	if d == "" {
		return def
	}
	duration, err := time.ParseDuration(d)
	if err != nil {
		return def
	}
	return duration
}

// ParseNumber parses s as a finite float after trimming whitespace. "NaN"
// and "Inf" spellings are not numbers.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CleanHeader trims whitespace and removes all quotes from a CSV header.
func CleanHeader(h string) string {
	h = strings.TrimSpace(h)
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ReplaceAll(h, `"`, "")
}

// NaturalLess orders numerically when both strings parse as numbers,
// lexically otherwise. Numbers sort before text.
func NaturalLess(a, b string) bool {
	fa, okA := ParseNumber(a)
	fb, okB := ParseNumber(b)
	switch {
	case okA && okB:
		if fa != fb {
			return fa < fb
		}
		return a < b
	case okA:
		return true
	case okB:
		return false
	}
	return a < b
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
