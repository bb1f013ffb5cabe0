package charges

import (
	"math"

	"github.com/stockpilot/stockpilot-api/internal/domain/enum"
)

// ApplyRounding rounds an amount to a whole rupee according to the
// configured rule and returns the rounded value together with the
// signed round-off (rounded minus amount, negative when rounding down).
// The rule works at whole-unit granularity regardless of the two-decimal
// normalization applied elsewhere.
func ApplyRounding(amount float64, rule enum.RoundRule) (rounded, roundOff float64) {
	if !isFinite(amount) {
		amount = 0
	}
	switch rule {
	case enum.RoundRuleUp:
		rounded = math.Ceil(amount)
	case enum.RoundRuleDown:
		rounded = math.Floor(amount)
	default:
		// nearest: half away from zero
		rounded = math.Round(amount)
	}
	return rounded, rounded - amount
}
