package charges

import (
	"math"
	"testing"

	"github.com/stockpilot/stockpilot-api/internal/domain/enum"
	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	t.Parallel()

	require.Equal(t, 10.56, Round2(10.555))
	require.Equal(t, 10.55, Round2(10.554))
	require.Equal(t, -10.56, Round2(-10.555)) // half away from zero
	require.Equal(t, 0.0, Round2(math.NaN()))
	require.Equal(t, 0.0, Round2(math.Inf(-1)))
}

func TestAmount(t *testing.T) {
	t.Parallel()

	require.Equal(t, 42.5, Amount(42.5))
	require.Equal(t, 0.0, Amount(-1))
	require.Equal(t, 0.0, Amount(math.NaN()))
	require.Equal(t, 0.0, Amount(math.Inf(1)))
}

func TestClampPct(t *testing.T) {
	t.Parallel()

	require.Equal(t, 50.0, ClampPct(50))
	require.Equal(t, 0.0, ClampPct(-10))
	require.Equal(t, 100.0, ClampPct(250))
	require.Equal(t, 0.0, ClampPct(math.NaN()))
}

func TestApplyRounding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount       float64
		rule         enum.RoundRule
		wantRounded  float64
		wantRoundOff float64
	}{
		{11800.4, enum.RoundRuleNearest, 11800, -0.4},
		{11800.5, enum.RoundRuleNearest, 11801, 0.5},
		{11800.4, enum.RoundRuleUp, 11801, 0.6},
		{11800.4, enum.RoundRuleDown, 11800, -0.4},
		{11800.0, enum.RoundRuleUp, 11800, 0},
		{0, enum.RoundRuleNearest, 0, 0},
	}

	for _, tt := range tests {
		rounded, roundOff := ApplyRounding(tt.amount, tt.rule)
		require.Equal(t, tt.wantRounded, rounded, "amount=%v rule=%v", tt.amount, tt.rule)
		require.InDelta(t, tt.wantRoundOff, roundOff, 1e-9, "amount=%v rule=%v", tt.amount, tt.rule)
	}
}

func TestApplyRoundingUnknownRuleUsesNearest(t *testing.T) {
	t.Parallel()

	rounded, _ := ApplyRounding(10.6, enum.RoundRule("banker"))
	require.Equal(t, 11.0, rounded)
}
