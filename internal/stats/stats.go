// Package stats holds the numeric pieces of time attribution: rescaling to an
// authoritative total, integer percentages that always sum to 100, and
// per-solve pace figures.
package stats

import "math"

// Percentages converts values to integer percentages of their sum.
//
// Each value is rounded after adding the rounding error carried from the
// previous one, so the results sum to exactly 100 whenever the sum is positive.
// A non-positive sum yields all zeros.
func Percentages(values []float64) []int {
	out := make([]int, len(values))

	var total float64
	for _, v := range values {
		total += v
	}
	if total <= 0 {
		return out
	}

	carry := 0.0
	for i, v := range values {
		exact := v*100/total + carry
		rounded := math.Round(exact)
		carry = exact - rounded
		out[i] = int(rounded)
	}
	return out
}

// RescaleFactor returns the multiplier that makes sum equal target.
// A non-positive target leaves values unscaled. A zero sum has nothing to scale.
func RescaleFactor(sum, target float64) float64 {
	if target <= 0 || sum == 0 {
		return 1
	}
	return target / sum
}

// Rescale multiplies every value so the results sum to target.
func Rescale(values []float64, target float64) ([]float64, float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	factor := RescaleFactor(sum, target)

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v * factor
	}
	return out, factor
}

// TPS calculates turns per second.
func TPS(moves int, durationMs float64) float64 {
	if durationMs <= 0 {
		return 0
	}
	return float64(moves) / (durationMs / 1000.0)
}
