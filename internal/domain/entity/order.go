package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Order represents a retailer's order request. The charge fields are
// the authoritative breakdown snapshotted at request time by the same
// engine that powers the settings live preview; they are never
// recomputed afterwards.
type Order struct {
	ID         uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	TenantID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	RetailerID uuid.UUID        `gorm:"type:uuid;not null;index" json:"retailer_id"`
	OrderDate  time.Time        `gorm:"type:date;not null" json:"order_date"`
	Status     enum.OrderStatus `gorm:"default:0" json:"status"`
	InvoiceNo  string           `gorm:"size:100;unique;not null" json:"invoice_no"`

	// Charges breakdown (authoritative, computed once at request time)
	TaxType        enum.TaxType `gorm:"size:20" json:"tax_type"`
	SubTotal       float64      `gorm:"type:decimal(14,2);default:0" json:"sub_total"`
	DiscountAmt    float64      `gorm:"type:decimal(14,2);default:0" json:"discount_amt"`
	DeliveryFee    float64      `gorm:"type:decimal(12,2);default:0" json:"delivery_fee"`
	PackingFee     float64      `gorm:"type:decimal(12,2);default:0" json:"packing_fee"`
	InsuranceFee   float64      `gorm:"type:decimal(12,2);default:0" json:"insurance_fee"`
	OtherFee       float64      `gorm:"type:decimal(12,2);default:0" json:"other_fee"`
	TaxableBase    float64      `gorm:"type:decimal(14,2);default:0" json:"taxable_base"`
	CGST           float64      `gorm:"type:decimal(14,2);default:0;column:cgst" json:"cgst"`
	SGST           float64      `gorm:"type:decimal(14,2);default:0;column:sgst" json:"sgst"`
	IGST           float64      `gorm:"type:decimal(14,2);default:0;column:igst" json:"igst"`
	Taxes          float64      `gorm:"type:decimal(14,2);default:0" json:"taxes"`
	RoundOff       float64      `gorm:"type:decimal(6,2);default:0" json:"round_off"`
	GrandTotal     float64      `gorm:"type:decimal(14,2);default:0" json:"grand_total"`
	ChargesVersion int          `gorm:"default:1" json:"charges_version"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Tenant   Tenant      `gorm:"foreignKey:TenantID" json:"-"`
	User     User        `gorm:"foreignKey:UserID" json:"-"`
	Retailer *Retailer   `gorm:"foreignKey:RetailerID" json:"retailer,omitempty"`
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order with the estimator's pre-tax
// amounts snapshotted alongside the raw quantity and price.
type OrderItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	OrderID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID *uuid.UUID `gorm:"type:uuid;index" json:"product_id,omitempty"`

	SKU             string  `gorm:"size:100;column:sku" json:"sku"`
	Name            string  `gorm:"size:255;not null" json:"name"`
	Unit            string  `gorm:"size:50" json:"unit"`
	ImageURL        *string `gorm:"size:255" json:"image_url,omitempty"`
	Qty             float64 `gorm:"type:decimal(12,2);not null" json:"qty"`
	Price           float64 `gorm:"type:decimal(12,2);not null" json:"price"`
	ItemDiscountPct float64 `gorm:"type:decimal(5,2);default:0" json:"item_discount_pct"`
	Gross           float64 `gorm:"type:decimal(14,2);not null" json:"gross"`
	DiscountAmount  float64 `gorm:"type:decimal(14,2);default:0" json:"discount_amount"`
	Taxable         float64 `gorm:"type:decimal(14,2);not null" json:"taxable"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Order   Order    `gorm:"foreignKey:OrderID" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order item
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
