package histogram

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultBins is the bin count used by the standard plots
const DefaultBins = 100

// Range fixes the histogram's outer edges
type Range struct {
	Lo, Hi float64
}

// Histogram holds fixed-width bin counts. Edges has one more element than Counts.
type Histogram struct {
	Counts []float64
	Edges  []float64
}

// Compute bins values into equal-width bins. With a nil range the data's min
// and max are used; a degenerate range is widened by 0.5 on each side. Values
// outside the range are ignored, the last bin is closed on the right and
// non-finite values are dropped.
func Compute(values []float64, bins int, rng *Range) (*Histogram, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("histogram: bins must be positive, got %d", bins)
	}

	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}

	var lo, hi float64
	switch {
	case rng != nil:
		lo, hi = rng.Lo, rng.Hi
	case len(finite) == 0:
		lo, hi = 0, 1
	default:
		lo, hi = floats.Min(finite), floats.Max(finite)
	}
	if lo > hi {
		return nil, fmt.Errorf("histogram: range [%g, %g] is inverted", lo, hi)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)

	inRange := finite[:0]
	for _, v := range finite {
		if v >= lo && v <= hi {
			inRange = append(inRange, v)
		}
	}
	sort.Float64s(inRange)

	// stat.Histogram treats the top divider as exclusive
	dividers := append([]float64(nil), edges...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, inRange, nil)

	return &Histogram{Counts: counts, Edges: edges}, nil
}

// Total is the number of binned samples
func (h *Histogram) Total() float64 {
	return floats.Sum(h.Counts)
}

// LeftEdges returns the lower edge of every bin
func (h *Histogram) LeftEdges() []float64 {
	return append([]float64(nil), h.Edges[:len(h.Edges)-1]...)
}

func (h *Histogram) cumulative() []float64 {
	return floats.CumSum(make([]float64, len(h.Counts)), h.Counts)
}

// ComplementaryFraction is the fraction of samples above each bin: (n - cumsum) / n
func (h *Histogram) ComplementaryFraction() []float64 {
	n := h.Total()
	out := h.cumulative()
	for i, c := range out {
		out[i] = (n - c) / n
	}
	return out
}

// LogComplementaryCount is log10 of the number of samples above each bin.
// The final bin is always log10(0) = -Inf.
func (h *Histogram) LogComplementaryCount() []float64 {
	n := h.Total()
	out := h.cumulative()
	for i, c := range out {
		out[i] = math.Log10(n - c)
	}
	return out
}

// CumulativeFraction is the fraction of samples at or below each bin: cumsum / n
func (h *Histogram) CumulativeFraction() []float64 {
	n := h.Total()
	out := h.cumulative()
	for i, c := range out {
		out[i] = c / n
	}
	return out
}
