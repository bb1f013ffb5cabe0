package request

import "github.com/google/uuid"

// OrderItemRequest is one requested order line. Either a product
// reference or a free-form name must be supplied; quantity and price
// are sanitized by the estimator, not rejected.
type OrderItemRequest struct {
	ProductID       *uuid.UUID `json:"product_id"`
	SKU             string     `json:"sku" binding:"omitempty,max=100"`
	Name            string     `json:"name" binding:"omitempty,max=255"`
	Unit            string     `json:"unit" binding:"omitempty,max=50"`
	ImageURL        string     `json:"image_url" binding:"omitempty,max=255"`
	Qty             float64    `json:"qty"`
	Price           float64    `json:"price"`
	ItemDiscountPct float64    `json:"item_discount_pct"`
}

// CreateOrderRequest represents an order creation request
type CreateOrderRequest struct {
	RetailerID uuid.UUID          `json:"retailer_id" binding:"required"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1"`
}
