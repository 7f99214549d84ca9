// Package normalize provides the shared numeric utilities every calculator
// routes its scores through. Centralizing clamp/band logic here is what keeps
// the bounds invariants uniform across the engine.
package normalize

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Clamp bounds value to [lo, hi]. NaN collapses to lo so degenerate inputs
// can never escape the documented range.
func Clamp(value, lo, hi float64) float64 {
	if math.IsNaN(value) {
		return lo
	}
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// Term is a single (value, weight) pair for weighted aggregation
type Term struct {
	Value  float64
	Weight float64
}

// WeightedSum returns the sum of value*weight over all terms
func WeightedSum(terms []Term) float64 {
	total := 0.0
	for _, t := range terms {
		total += t.Value * t.Weight
	}
	return total
}

// Band is one threshold entry for BandOf, ordered descending by Min
type Band struct {
	Min   float64
	Label string
}

// BandOf returns the label of the first band whose lower bound the value meets
// or exceeds. Bands must be ordered descending; defaultLabel is returned when
// no band matches.
func BandOf(value float64, bands []Band, defaultLabel string) string {
	for _, b := range bands {
		if value >= b.Min {
			return b.Label
		}
	}
	return defaultLabel
}

// Mean returns the arithmetic mean of values, or 0 for an empty window.
// Empty rolling windows contribute neutrally instead of producing NaN.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// StdDev returns the population standard deviation of values, or 0 when the
// window is too small to measure spread.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return math.Sqrt(stat.PopVariance(values, nil))
}

// SafeRatio returns num/den, or 0 when the denominator is 0. Used for
// momentum and team-strength ratios where a degenerate match state must not
// propagate an undefined value.
func SafeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
