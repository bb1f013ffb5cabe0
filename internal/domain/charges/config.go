package charges

import (
	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/domain/entity"
	"github.com/stockpilot/stockpilot-api/internal/domain/enum"
)

// EffectiveDefaults is the fully-resolved charge configuration used for
// one computation: the tenant's ChargeDefaults with any per-retailer
// override applied field by field. It is computed fresh per request and
// never persisted.
type EffectiveDefaults struct {
	Enabled           bool           `json:"enabled"`
	TaxType           enum.TaxType   `json:"tax_type,omitempty"`
	AutodetectTaxType bool           `json:"autodetect_tax_type"`
	GSTRate           float64        `json:"gst_rate"`
	CGSTRate          float64        `json:"cgst_rate"`
	SGSTRate          float64        `json:"sgst_rate"`
	IGSTRate          float64        `json:"igst_rate"`
	DeliveryFee       float64        `json:"delivery_fee"`
	PackingFee        float64        `json:"packing_fee"`
	InsuranceFee      float64        `json:"insurance_fee"`
	OtherFee          float64        `json:"other_fee"`
	DiscountPct       float64        `json:"discount_pct"`
	DiscountAmt       float64        `json:"discount_amt"`
	RoundRule         enum.RoundRule `json:"round_rule"`
	SkipProforma      bool           `json:"skip_proforma"`
}

// MergeDefaults resolves the effective configuration for a retailer:
// for every field a non-nil override value wins, including an explicit
// zero or false, otherwise the tenant default is inherited. A nil
// override inherits everything. Total function, never fails: a nil
// global merges as the built-in base configuration.
func MergeDefaults(global *entity.ChargeDefaults, override *entity.RetailerChargeOverride) EffectiveDefaults {
	if global == nil {
		global = entity.BaseChargeDefaults(uuid.Nil)
	}
	eff := EffectiveDefaults{
		Enabled:           global.Enabled,
		AutodetectTaxType: global.AutodetectTaxType,
		GSTRate:           global.GSTRate,
		CGSTRate:          global.CGSTRate,
		SGSTRate:          global.SGSTRate,
		IGSTRate:          global.IGSTRate,
		DeliveryFee:       global.DeliveryFee,
		PackingFee:        global.PackingFee,
		InsuranceFee:      global.InsuranceFee,
		OtherFee:          global.OtherFee,
		DiscountPct:       global.DiscountPct,
		DiscountAmt:       global.DiscountAmt,
		RoundRule:         global.RoundRule,
		SkipProforma:      global.SkipProforma,
	}
	if global.TaxType != nil {
		eff.TaxType = *global.TaxType
	}

	if override == nil {
		return eff
	}

	if override.Enabled != nil {
		eff.Enabled = *override.Enabled
	}
	if override.TaxType != nil {
		eff.TaxType = *override.TaxType
	}
	if override.AutodetectTaxType != nil {
		eff.AutodetectTaxType = *override.AutodetectTaxType
	}
	if override.GSTRate != nil {
		eff.GSTRate = *override.GSTRate
	}
	if override.CGSTRate != nil {
		eff.CGSTRate = *override.CGSTRate
	}
	if override.SGSTRate != nil {
		eff.SGSTRate = *override.SGSTRate
	}
	if override.IGSTRate != nil {
		eff.IGSTRate = *override.IGSTRate
	}
	if override.DeliveryFee != nil {
		eff.DeliveryFee = *override.DeliveryFee
	}
	if override.PackingFee != nil {
		eff.PackingFee = *override.PackingFee
	}
	if override.InsuranceFee != nil {
		eff.InsuranceFee = *override.InsuranceFee
	}
	if override.OtherFee != nil {
		eff.OtherFee = *override.OtherFee
	}
	if override.DiscountPct != nil {
		eff.DiscountPct = *override.DiscountPct
	}
	if override.DiscountAmt != nil {
		eff.DiscountAmt = *override.DiscountAmt
	}
	if override.RoundRule != nil {
		eff.RoundRule = *override.RoundRule
	}
	if override.SkipProforma != nil {
		eff.SkipProforma = *override.SkipProforma
	}
	return eff
}
