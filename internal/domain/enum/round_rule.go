package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// RoundRule selects the whole-rupee rounding applied to an order's
// gross total before it becomes the grand total.
type RoundRule string

const (
	RoundRuleNearest RoundRule = "nearest"
	RoundRuleUp      RoundRule = "up"
	RoundRuleDown    RoundRule = "down"
)

// IsValid reports whether the value is one of the known rounding rules
func (r RoundRule) IsValid() bool {
	return r == RoundRuleNearest || r == RoundRuleUp || r == RoundRuleDown
}

func (r RoundRule) String() string {
	return string(r)
}

func (r RoundRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r))
}

func (r *RoundRule) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*r = RoundRule(str)
	return nil
}

func (r RoundRule) Value() (driver.Value, error) {
	return string(r), nil
}

func (r *RoundRule) Scan(value interface{}) error {
	if value == nil {
		*r = RoundRuleNearest
		return nil
	}
	switch v := value.(type) {
	case string:
		*r = RoundRule(v)
	case []byte:
		*r = RoundRule(v)
	}
	return nil
}
