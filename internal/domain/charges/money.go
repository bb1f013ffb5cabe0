// Package charges implements the order charge computation used by both
// the settings live preview and order persistence: tiered configuration
// resolution, GST tax-type selection, the pre-tax line item estimate and
// the full tax/fee/rounding breakdown. Everything here is a pure
// function of its inputs so the preview and the persisted value can
// never diverge.
package charges

import "math"

// Round2 rounds a monetary value to two decimal places, half away from
// zero. Non-finite input becomes 0.
func Round2(v float64) float64 {
	if !isFinite(v) {
		return 0
	}
	return math.Round(v*100) / 100
}

// Amount coerces an arbitrary numeric input into a usable non-negative
// amount: non-finite or negative values become 0.
func Amount(v float64) float64 {
	if !isFinite(v) || v < 0 {
		return 0
	}
	return v
}

// ClampPct clamps a percentage to the [0,100] range. Non-finite input
// becomes 0.
func ClampPct(v float64) float64 {
	if !isFinite(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
