package charges

import (
	"strings"

	"github.com/stockpilot/stockpilot-api/internal/domain/enum"
)

// TaxProfile carries the geographic tax identity of one party. An
// explicit StateCode wins; otherwise the state code is derived from the
// first two characters of the GSTIN without checksum validation.
type TaxProfile struct {
	StateCode string `json:"state_code,omitempty"`
	GSTIN     string `json:"gstin,omitempty"`
}

// Code returns the party's 2-character state code, or "" when neither
// field yields one. A GSTIN shorter than two characters yields no code.
func (p *TaxProfile) Code() string {
	if p == nil {
		return ""
	}
	src := strings.TrimSpace(p.StateCode)
	if src == "" {
		src = strings.TrimSpace(p.GSTIN)
	}
	if len(src) < 2 {
		return ""
	}
	return src[:2]
}

// ResolveTaxType decides whether an order is taxed intrastate
// (CGST+SGST) or interstate (IGST). With autodetection on and both
// parties yielding a state code, equal codes mean intrastate and
// different codes mean interstate. Otherwise the configured tax type
// applies, defaulting to CGST_SGST when that too is unset. A missing
// code disables autodetection for this computation only.
func ResolveTaxType(cfg EffectiveDefaults, distributor, retailer *TaxProfile) enum.TaxType {
	if cfg.AutodetectTaxType {
		d := distributor.Code()
		r := retailer.Code()
		if d != "" && r != "" {
			if d == r {
				return enum.TaxTypeCGSTSGST
			}
			return enum.TaxTypeIGST
		}
	}
	if cfg.TaxType.IsValid() {
		return cfg.TaxType
	}
	return enum.TaxTypeCGSTSGST
}
