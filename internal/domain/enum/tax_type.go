package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// TaxType represents how GST is split on an order.
// CGST_SGST applies to intrastate supply (two components),
// IGST to interstate supply (single component). The two
// families are mutually exclusive on any computed breakdown.
type TaxType string

const (
	TaxTypeCGSTSGST TaxType = "CGST_SGST"
	TaxTypeIGST     TaxType = "IGST"
)

// IsValid reports whether the value is one of the known tax types
func (t TaxType) IsValid() bool {
	return t == TaxTypeCGSTSGST || t == TaxTypeIGST
}

func (t TaxType) String() string {
	return string(t)
}

func (t TaxType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *TaxType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = TaxType(str)
	return nil
}

func (t TaxType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *TaxType) Scan(value interface{}) error {
	if value == nil {
		*t = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = TaxType(v)
	case []byte:
		*t = TaxType(v)
	}
	return nil
}
