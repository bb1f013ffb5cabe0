package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OrderStatus represents the status of a retailer order request
type OrderStatus int

const (
	OrderStatusRequested OrderStatus = 0
	OrderStatusAccepted  OrderStatus = 1
	OrderStatusRejected  OrderStatus = 2
	OrderStatusDelivered OrderStatus = 3
	OrderStatusCancelled OrderStatus = 4
)

// IsValid reports whether the status is one of the defined values
func (s OrderStatus) IsValid() bool {
	return s >= OrderStatusRequested && s <= OrderStatusCancelled
}

func (s OrderStatus) String() string {
	names := [...]string{"Requested", "Accepted", "Rejected", "Delivered", "Cancelled"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Requested"
	}
	return names[s]
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = OrderStatus(i)
		return nil
	}
	switch str {
	case "Requested":
		*s = OrderStatusRequested
	case "Accepted":
		*s = OrderStatusAccepted
	case "Rejected":
		*s = OrderStatusRejected
	case "Delivered":
		*s = OrderStatusDelivered
	case "Cancelled":
		*s = OrderStatusCancelled
	}
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStatusRequested
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = OrderStatus(v)
	case int:
		*s = OrderStatus(v)
	}
	return nil
}
