package request

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name          string  `json:"name" binding:"required,min=2,max=255"`
	SKU           string  `json:"sku" binding:"omitempty,max=100"`
	Unit          string  `json:"unit" binding:"omitempty,max=50"`
	SellingPrice  float64 `json:"selling_price" binding:"min=0"`
	Quantity      int     `json:"quantity" binding:"min=0"`
	QuantityAlert int     `json:"quantity_alert" binding:"min=0"`
	Notes         *string `json:"notes"`
	ProductImage  *string `json:"product_image"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name          *string  `json:"name" binding:"omitempty,min=2,max=255"`
	SKU           *string  `json:"sku" binding:"omitempty,min=1,max=100"`
	Unit          *string  `json:"unit" binding:"omitempty,max=50"`
	SellingPrice  *float64 `json:"selling_price" binding:"omitempty,min=0"`
	Quantity      *int     `json:"quantity" binding:"omitempty,min=0"`
	QuantityAlert *int     `json:"quantity_alert" binding:"omitempty,min=0"`
	Notes         *string  `json:"notes"`
	ProductImage  *string  `json:"product_image"`
}

// ImportProductRowRequest is one row of a bulk product import payload
type ImportProductRowRequest struct {
	Name          string  `json:"name"`
	SKU           string  `json:"sku"`
	Unit          string  `json:"unit"`
	SellingPrice  float64 `json:"selling_price"`
	Quantity      int     `json:"quantity"`
	QuantityAlert int     `json:"quantity_alert"`
	Notes         string  `json:"notes"`
}

// ImportProductsRequest represents a bulk product import request
type ImportProductsRequest struct {
	Rows []ImportProductRowRequest `json:"rows" binding:"required,min=1"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	LowStock  bool   `form:"low_stock"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
