package figures

import (
	"math"
	"sort"
)

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// quantile uses linear interpolation between closest ranks. xs must be sorted.
func quantile(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	pos := q * float64(len(xs)-1)
	lo := math.Floor(pos)
	hi := math.Ceil(pos)
	if lo == hi {
		return xs[int(lo)]
	}
	frac := pos - lo
	return xs[int(lo)]*(1-frac) + xs[int(hi)]*frac
}

// fiveNumber returns min, q1, median, q3 and max of xs.
func fiveNumber(xs []float64) BoxStats {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	if len(sorted) == 0 {
		return BoxStats{}
	}
	return BoxStats{
		Count:  len(sorted),
		Min:    sorted[0],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

// ols fits y = slope*x + intercept by least squares.
// ok is false with fewer than two points or no variance in x.
func ols(xs, ys []float64) (slope, intercept float64, ok bool) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0, 0, false
	}
	mx, my := mean(xs), mean(ys)
	var sxy, sxx float64
	for i := range xs {
		dx := xs[i] - mx
		sxy += dx * (ys[i] - my)
		sxx += dx * dx
	}
	if sxx == 0 {
		return 0, 0, false
	}
	slope = sxy / sxx
	return slope, my - slope*mx, true
}

// equalWidthEdges splits [lo, hi] into n equal bins with the lowest edge
// pulled down by 0.1% of the range so lo falls in the first right-closed bin.
// When lo == hi both ends are widened by 0.1% instead.
func equalWidthEdges(lo, hi float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	edges := make([]float64, n+1)
	degenerate := lo == hi
	if degenerate {
		lo, hi = lo-0.001*math.Abs(lo), hi+0.001*math.Abs(hi)
		if lo == hi {
			lo, hi = -0.001, 0.001
		}
	}
	step := (hi - lo) / float64(n)
	for i := range edges {
		edges[i] = lo + step*float64(i)
	}
	edges[n] = hi
	if !degenerate {
		edges[0] = lo - (hi-lo)*0.001
	}
	return edges
}

// binIndex returns the right-closed bin of x, or -1 when out of range.
func binIndex(edges []float64, x float64) int {
	if len(edges) < 2 || x <= edges[0] || x > edges[len(edges)-1] {
		return -1
	}
	i := sort.SearchFloat64s(edges, x)
	return i - 1
}
