package charges

import (
	"testing"

	"github.com/stockpilot/stockpilot-api/internal/domain/enum"
	"github.com/stretchr/testify/require"
)

func TestTaxProfileCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		profile *TaxProfile
		want    string
	}{
		{"nil profile", nil, ""},
		{"explicit state code", &TaxProfile{StateCode: "27"}, "27"},
		{"state code wins over gstin", &TaxProfile{StateCode: "27", GSTIN: "29ABCDE1234F1Z5"}, "27"},
		{"derived from gstin", &TaxProfile{GSTIN: "29ABCDE1234F1Z5"}, "29"},
		{"gstin too short", &TaxProfile{GSTIN: "2"}, ""},
		{"whitespace only", &TaxProfile{StateCode: "  ", GSTIN: " "}, ""},
		{"trims whitespace", &TaxProfile{GSTIN: " 07AAAAA0000A1Z5 "}, "07"},
		{"empty", &TaxProfile{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.profile.Code())
		})
	}
}

func TestResolveTaxTypeAutodetect(t *testing.T) {
	t.Parallel()

	cfg := EffectiveDefaults{AutodetectTaxType: true, TaxType: enum.TaxTypeIGST}

	// same state: intrastate regardless of the configured type
	got := ResolveTaxType(cfg, &TaxProfile{StateCode: "27"}, &TaxProfile{StateCode: "27"})
	require.Equal(t, enum.TaxTypeCGSTSGST, got)

	// different states: interstate
	got = ResolveTaxType(cfg, &TaxProfile{StateCode: "27"}, &TaxProfile{StateCode: "29"})
	require.Equal(t, enum.TaxTypeIGST, got)

	// codes derived from GSTINs work the same way
	got = ResolveTaxType(cfg, &TaxProfile{GSTIN: "27ABCDE1234F1Z5"}, &TaxProfile{GSTIN: "27XYZAB5678C1Z9"})
	require.Equal(t, enum.TaxTypeCGSTSGST, got)
}

func TestResolveTaxTypeMissingCodeFallsBackToConfigured(t *testing.T) {
	t.Parallel()

	cfg := EffectiveDefaults{AutodetectTaxType: true, TaxType: enum.TaxTypeIGST}

	got := ResolveTaxType(cfg, &TaxProfile{StateCode: "27"}, &TaxProfile{})
	require.Equal(t, enum.TaxTypeIGST, got)

	got = ResolveTaxType(cfg, nil, nil)
	require.Equal(t, enum.TaxTypeIGST, got)
}

func TestResolveTaxTypeAutodetectOff(t *testing.T) {
	t.Parallel()

	cfg := EffectiveDefaults{AutodetectTaxType: false, TaxType: enum.TaxTypeIGST}

	// matching states are ignored when autodetection is off
	got := ResolveTaxType(cfg, &TaxProfile{StateCode: "27"}, &TaxProfile{StateCode: "27"})
	require.Equal(t, enum.TaxTypeIGST, got)
}

func TestResolveTaxTypeDefaultsToIntrastate(t *testing.T) {
	t.Parallel()

	// nothing configured, nothing detectable
	got := ResolveTaxType(EffectiveDefaults{}, nil, nil)
	require.Equal(t, enum.TaxTypeCGSTSGST, got)

	// garbage configured value falls through to the default too
	got = ResolveTaxType(EffectiveDefaults{TaxType: enum.TaxType("VAT")}, nil, nil)
	require.Equal(t, enum.TaxTypeCGSTSGST, got)
}
