package charges

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/domain/entity"
	"github.com/stockpilot/stockpilot-api/internal/domain/enum"
	"github.com/stretchr/testify/require"
)

func intrastateConfig() EffectiveDefaults {
	return EffectiveDefaults{
		Enabled:   true,
		TaxType:   enum.TaxTypeCGSTSGST,
		GSTRate:   18,
		CGSTRate:  9,
		SGSTRate:  9,
		IGSTRate:  18,
		RoundRule: enum.RoundRuleNearest,
	}
}

func TestComputeStandardIntrastate(t *testing.T) {
	t.Parallel()

	b := Compute(10000, intrastateConfig(), nil, nil)

	require.Equal(t, enum.TaxTypeCGSTSGST, b.TaxType)
	require.Equal(t, 10000.0, b.SubTotal)
	require.Equal(t, 900.0, b.TaxBreakup.CGST)
	require.Equal(t, 900.0, b.TaxBreakup.SGST)
	require.Equal(t, 0.0, b.TaxBreakup.IGST)
	require.Equal(t, 1800.0, b.Taxes)
	require.Equal(t, 11800.0, b.GrandTotal)
	require.Equal(t, 0.0, b.RoundOff)
	require.Equal(t, BreakdownVersion, b.Version)
}

func TestComputeInterstateUsesIGSTOnly(t *testing.T) {
	t.Parallel()

	cfg := intrastateConfig()
	cfg.TaxType = enum.TaxTypeIGST

	b := Compute(10000, cfg, nil, nil)

	require.Equal(t, enum.TaxTypeIGST, b.TaxType)
	require.Equal(t, 0.0, b.TaxBreakup.CGST)
	require.Equal(t, 0.0, b.TaxBreakup.SGST)
	require.Equal(t, 1800.0, b.TaxBreakup.IGST)
	require.Equal(t, 11800.0, b.GrandTotal)
}

func TestComputeTaxFamiliesNeverMix(t *testing.T) {
	t.Parallel()

	subTotals := []float64{0, 1, 99.99, 10000, 123456.78}
	for _, st := range subTotals {
		for _, taxType := range []enum.TaxType{enum.TaxTypeCGSTSGST, enum.TaxTypeIGST} {
			cfg := intrastateConfig()
			cfg.TaxType = taxType
			b := Compute(st, cfg, nil, nil)
			if b.TaxType == enum.TaxTypeCGSTSGST {
				require.Zero(t, b.TaxBreakup.IGST)
			} else {
				require.Zero(t, b.TaxBreakup.CGST)
				require.Zero(t, b.TaxBreakup.SGST)
			}
		}
	}
}

func TestComputeGreaterOfDiscount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		pct         float64
		amt         float64
		wantApplied float64
	}{
		{"percentage wins", 10, 500, 1000},
		{"fixed amount wins", 5, 800, 800},
		{"equal picks either", 10, 1000, 1000},
		{"no discount", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := intrastateConfig()
			cfg.DiscountPct = tt.pct
			cfg.DiscountAmt = tt.amt

			b := Compute(10000, cfg, nil, nil)
			require.Equal(t, tt.wantApplied, b.DiscountAmt)
			require.Equal(t, 10000-tt.wantApplied, b.TaxableBase)
		})
	}
}

func TestComputeDiscountCannotPushBaseNegative(t *testing.T) {
	t.Parallel()

	cfg := intrastateConfig()
	cfg.DiscountAmt = 500

	b := Compute(100, cfg, nil, nil)
	require.Equal(t, 0.0, b.TaxableBase)
	require.Equal(t, 0.0, b.Taxes)
	require.Equal(t, 0.0, b.GrandTotal)
}

func TestComputeFeesAddedAfterDiscountAndTaxed(t *testing.T) {
	t.Parallel()

	cfg := intrastateConfig()
	cfg.DiscountPct = 10
	cfg.DeliveryFee = 100
	cfg.PackingFee = 50
	cfg.InsuranceFee = 30
	cfg.OtherFee = 20

	b := Compute(10000, cfg, nil, nil)

	// discount applies to the item subtotal only, fees join afterwards
	require.Equal(t, 1000.0, b.DiscountAmt)
	require.Equal(t, 9200.0, b.TaxableBase) // 9000 + 200 in fees
	require.Equal(t, 828.0, b.TaxBreakup.CGST)
	require.Equal(t, 828.0, b.TaxBreakup.SGST)
	require.Equal(t, 10856.0, b.GrandTotal)
}

func TestComputeRoundRules(t *testing.T) {
	t.Parallel()

	// 9831.98 * 1.18 = 11601.7364: a grand total with a fractional part
	tests := []struct {
		rule          enum.RoundRule
		wantTotal     float64
		wantRoundOff  float64
		roundOffDelta float64
	}{
		{enum.RoundRuleNearest, 11602.0, 0.26, 0.005},
		{enum.RoundRuleUp, 11602.0, 0.26, 0.005},
		{enum.RoundRuleDown, 11601.0, -0.74, 0.005},
	}

	for _, tt := range tests {
		t.Run(string(tt.rule), func(t *testing.T) {
			cfg := intrastateConfig()
			cfg.RoundRule = tt.rule

			b := Compute(9831.98, cfg, nil, nil)
			require.Equal(t, tt.wantTotal, b.GrandTotal)
			require.InDelta(t, tt.wantRoundOff, b.RoundOff, tt.roundOffDelta)
			// GrandTotal must equal base + taxes + roundOff within rounding noise
			require.InDelta(t, b.TaxableBase+b.Taxes+b.RoundOff, b.GrandTotal, 0.011)
		})
	}
}

func TestComputeRoundOffSigned(t *testing.T) {
	t.Parallel()

	cfg := intrastateConfig()
	cfg.RoundRule = enum.RoundRuleDown
	down := Compute(9831.98, cfg, nil, nil)
	require.Negative(t, down.RoundOff)

	cfg.RoundRule = enum.RoundRuleUp
	up := Compute(9831.98, cfg, nil, nil)
	require.Positive(t, up.RoundOff)
}

func TestComputeIGSTFallsBackToGSTRate(t *testing.T) {
	t.Parallel()

	cfg := intrastateConfig()
	cfg.TaxType = enum.TaxTypeIGST
	cfg.IGSTRate = math.NaN()
	cfg.GSTRate = 12

	b := Compute(10000, cfg, nil, nil)
	require.Equal(t, 1200.0, b.TaxBreakup.IGST)
}

func TestComputeMalformedInputTreatedAsZero(t *testing.T) {
	t.Parallel()

	cfg := intrastateConfig()
	cfg.DeliveryFee = math.NaN()
	cfg.DiscountPct = math.Inf(1)
	cfg.DiscountAmt = -50

	b := Compute(math.NaN(), cfg, nil, nil)
	require.Equal(t, 0.0, b.SubTotal)
	require.Equal(t, 0.0, b.DeliveryFee)
	require.Equal(t, 0.0, b.GrandTotal)
}

func TestComputeDeterministic(t *testing.T) {
	t.Parallel()

	cfg := intrastateConfig()
	cfg.DiscountPct = 7.5
	cfg.DeliveryFee = 42.42

	first := Compute(98765.43, cfg, nil, nil)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, Compute(98765.43, cfg, nil, nil))
	}
}

func TestComputeZeroOverrideBeatsNonZeroDefault(t *testing.T) {
	t.Parallel()

	global := entity.BaseChargeDefaults(uuid.Nil)
	global.DeliveryFee = 150
	global.DiscountPct = 10

	zero := 0.0
	override := &entity.RetailerChargeOverride{
		DeliveryFee: &zero,
		DiscountPct: &zero,
	}

	eff := MergeDefaults(global, override)
	require.Equal(t, 0.0, eff.DeliveryFee)
	require.Equal(t, 0.0, eff.DiscountPct)

	// whereas an untouched override inherits the tenant values
	inherited := MergeDefaults(global, &entity.RetailerChargeOverride{})
	require.Equal(t, 150.0, inherited.DeliveryFee)
	require.Equal(t, 10.0, inherited.DiscountPct)
}

func TestMergeDefaultsNilOverrideInheritsEverything(t *testing.T) {
	t.Parallel()

	global := entity.BaseChargeDefaults(uuid.Nil)
	global.Enabled = true
	global.DeliveryFee = 75
	taxType := enum.TaxTypeIGST
	global.TaxType = &taxType

	eff := MergeDefaults(global, nil)
	require.True(t, eff.Enabled)
	require.Equal(t, 75.0, eff.DeliveryFee)
	require.Equal(t, enum.TaxTypeIGST, eff.TaxType)
	require.Equal(t, 9.0, eff.CGSTRate)
	require.Equal(t, enum.RoundRuleNearest, eff.RoundRule)
}

func TestMergeDefaultsNilGlobalUsesBaseShape(t *testing.T) {
	t.Parallel()

	eff := MergeDefaults(nil, nil)
	require.False(t, eff.Enabled)
	require.Equal(t, 9.0, eff.CGSTRate)
	require.Equal(t, 9.0, eff.SGSTRate)
	require.Equal(t, 18.0, eff.IGSTRate)
	require.Equal(t, enum.RoundRuleNearest, eff.RoundRule)

	// an override still applies on top of the base shape
	fee := 30.0
	eff = MergeDefaults(nil, &entity.RetailerChargeOverride{DeliveryFee: &fee})
	require.Equal(t, 30.0, eff.DeliveryFee)
	require.Equal(t, 18.0, eff.IGSTRate)
}

func TestMergeDefaultsFieldByField(t *testing.T) {
	t.Parallel()

	global := entity.BaseChargeDefaults(uuid.Nil)
	global.DeliveryFee = 100
	global.PackingFee = 40

	fee := 250.0
	enabled := true
	rule := enum.RoundRuleUp
	override := &entity.RetailerChargeOverride{
		Enabled:     &enabled,
		DeliveryFee: &fee,
		RoundRule:   &rule,
	}

	eff := MergeDefaults(global, override)
	require.True(t, eff.Enabled)
	require.Equal(t, 250.0, eff.DeliveryFee)
	require.Equal(t, 40.0, eff.PackingFee) // untouched field inherits
	require.Equal(t, enum.RoundRuleUp, eff.RoundRule)
}
