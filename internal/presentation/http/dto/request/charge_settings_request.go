package request

import "github.com/stockpilot/stockpilot-api/pkg/patch"

// ChargeSettingsRequest is the partial-update payload for both the
// tenant-wide charge defaults and a retailer's override. Every field
// is tri-state: absent keeps the stored value, null means clear (reset
// to base for the defaults, restore inheritance for an override), and
// a concrete value sets it. Binding validation is deliberately absent:
// unusable values are dropped field by field, never rejected.
type ChargeSettingsRequest struct {
	Enabled           patch.Field[bool]    `json:"enabled"`
	TaxType           patch.Field[string]  `json:"tax_type"`
	AutodetectTaxType patch.Field[bool]    `json:"autodetect_tax_type"`
	GSTRate           patch.Field[float64] `json:"gst_rate"`
	CGSTRate          patch.Field[float64] `json:"cgst_rate"`
	SGSTRate          patch.Field[float64] `json:"sgst_rate"`
	IGSTRate          patch.Field[float64] `json:"igst_rate"`
	DeliveryFee       patch.Field[float64] `json:"delivery_fee"`
	PackingFee        patch.Field[float64] `json:"packing_fee"`
	InsuranceFee      patch.Field[float64] `json:"insurance_fee"`
	OtherFee          patch.Field[float64] `json:"other_fee"`
	DiscountPct       patch.Field[float64] `json:"discount_pct"`
	DiscountAmt       patch.Field[float64] `json:"discount_amt"`
	RoundRule         patch.Field[string]  `json:"round_rule"`
	SkipProforma      patch.Field[bool]    `json:"skip_proforma"`
	Notes             patch.Field[string]  `json:"notes"`
}

// PreviewChargesRequest carries the line items for a charges preview
type PreviewChargesRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1"`
}
