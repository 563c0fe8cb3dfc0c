// Package analytics implements the pure spending-analytics pipeline: monthly
// aggregation, category breakdown, and period-over-period trend. All
// functions are deterministic, side-effect free, and total on well-formed
// canonical input; validation happens upstream at the ingestion boundary.
package analytics

import "math"

// Round2 rounds a monetary value to two decimal places, half away from zero.
// Aggregators apply it once at the end of a computation, never per
// transaction, so rounding error does not compound.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
