package charges

import (
	"math"

	"github.com/stockpilot/stockpilot-api/internal/domain/enum"
)

// BreakdownVersion tags every emitted breakdown so downstream order and
// invoice consumers can tell which computation produced it.
const BreakdownVersion = 1

// TaxBreakup is the per-component tax split. Either the CGST/SGST pair
// or IGST is nonzero, never both families.
type TaxBreakup struct {
	CGST float64 `json:"cgst"`
	SGST float64 `json:"sgst"`
	IGST float64 `json:"igst"`
}

// Breakdown is the full charge breakdown for one order: what the
// retailer owes the distributor and how it was arrived at. All amounts
// are normalized to two decimals.
type Breakdown struct {
	TaxType      enum.TaxType `json:"tax_type"`
	SubTotal     float64      `json:"sub_total"`
	DiscountAmt  float64      `json:"discount_amt"`
	DeliveryFee  float64      `json:"delivery_fee"`
	PackingFee   float64      `json:"packing_fee"`
	InsuranceFee float64      `json:"insurance_fee"`
	OtherFee     float64      `json:"other_fee"`
	TaxableBase  float64      `json:"taxable_base"`
	TaxBreakup   TaxBreakup   `json:"tax_breakup"`
	Taxes        float64      `json:"taxes"`
	RoundOff     float64      `json:"round_off"`
	GrandTotal   float64      `json:"grand_total"`
	Version      int          `json:"version"`
}

// Compute produces the charge breakdown for an order subtotal under the
// resolved configuration. Pure function; malformed numeric input is
// treated as zero, never an error. The discount applied is the LARGER
// of the percentage discount and the fixed amount, fees are added after
// the discount and are themselves taxed, and the grand total is the
// taxable base plus taxes rounded to a whole rupee per the configured
// rule.
func Compute(itemsSubTotal float64, cfg EffectiveDefaults, distributor, retailer *TaxProfile) Breakdown {
	subTotal := Amount(itemsSubTotal)

	taxType := ResolveTaxType(cfg, distributor, retailer)

	discountFromPct := subTotal * ClampPct(cfg.DiscountPct) / 100
	discountFromAmt := Amount(cfg.DiscountAmt)
	appliedDiscount := math.Max(discountFromPct, discountFromAmt)

	delivery := Amount(cfg.DeliveryFee)
	packing := Amount(cfg.PackingFee)
	insurance := Amount(cfg.InsuranceFee)
	other := Amount(cfg.OtherFee)
	feesSum := delivery + packing + insurance + other

	taxableBase := math.Max(0, subTotal-appliedDiscount) + feesSum

	var breakup TaxBreakup
	if taxType == enum.TaxTypeCGSTSGST {
		breakup.CGST = taxableBase * Amount(cfg.CGSTRate) / 100
		breakup.SGST = taxableBase * Amount(cfg.SGSTRate) / 100
	} else {
		igstRate := cfg.IGSTRate
		if !isFinite(igstRate) {
			igstRate = cfg.GSTRate
		}
		breakup.IGST = taxableBase * Amount(igstRate) / 100
	}

	taxes := breakup.CGST + breakup.SGST + breakup.IGST
	grossTotal := taxableBase + taxes

	grandTotal, roundOff := ApplyRounding(grossTotal, cfg.RoundRule)

	return Breakdown{
		TaxType:      taxType,
		SubTotal:     Round2(subTotal),
		DiscountAmt:  Round2(appliedDiscount),
		DeliveryFee:  Round2(delivery),
		PackingFee:   Round2(packing),
		InsuranceFee: Round2(insurance),
		OtherFee:     Round2(other),
		TaxableBase:  Round2(taxableBase),
		TaxBreakup: TaxBreakup{
			CGST: Round2(breakup.CGST),
			SGST: Round2(breakup.SGST),
			IGST: Round2(breakup.IGST),
		},
		Taxes:      Round2(taxes),
		RoundOff:   Round2(roundOff),
		GrandTotal: Round2(grandTotal),
		Version:    BreakdownVersion,
	}
}
