package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/domain/enum"
	"gorm.io/gorm"
)

// RetailerChargeOverride holds a per-retailer override of the tenant's
// ChargeDefaults. Every charge field is independently nullable: NULL
// means "inherit from the tenant defaults", while an explicit zero or
// false is a real override. Clearing the override writes NULL to every
// field without deleting the row.
type RetailerChargeOverride struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_retailer_override,priority:1" json:"tenant_id"`
	RetailerID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_retailer_override,priority:2" json:"retailer_id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	UpdatedBy  *uuid.UUID     `gorm:"type:uuid" json:"updated_by,omitempty"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Enabled           *bool           `json:"enabled"`
	TaxType           *enum.TaxType   `gorm:"size:20" json:"tax_type"`
	AutodetectTaxType *bool           `json:"autodetect_tax_type"`
	GSTRate           *float64        `json:"gst_rate"`
	CGSTRate          *float64        `json:"cgst_rate"`
	SGSTRate          *float64        `json:"sgst_rate"`
	IGSTRate          *float64        `json:"igst_rate"`
	DeliveryFee       *float64        `json:"delivery_fee"`
	PackingFee        *float64        `json:"packing_fee"`
	InsuranceFee      *float64        `json:"insurance_fee"`
	OtherFee          *float64        `json:"other_fee"`
	DiscountPct       *float64        `json:"discount_pct"`
	DiscountAmt       *float64        `json:"discount_amt"`
	RoundRule         *enum.RoundRule `gorm:"size:10" json:"round_rule"`
	SkipProforma      *bool           `json:"skip_proforma"`
	Notes             *string         `gorm:"type:text" json:"notes,omitempty"`

	// Relationships
	Tenant   Tenant   `gorm:"foreignKey:TenantID" json:"-"`
	Retailer Retailer `gorm:"foreignKey:RetailerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new override
func (o *RetailerChargeOverride) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RetailerChargeOverride model
func (RetailerChargeOverride) TableName() string {
	return "retailer_charge_overrides"
}

// Clear resets every charge field to NULL, restoring full inheritance
// from the tenant defaults. Notes are kept.
func (o *RetailerChargeOverride) Clear() {
	o.Enabled = nil
	o.TaxType = nil
	o.AutodetectTaxType = nil
	o.GSTRate = nil
	o.CGSTRate = nil
	o.SGSTRate = nil
	o.IGSTRate = nil
	o.DeliveryFee = nil
	o.PackingFee = nil
	o.InsuranceFee = nil
	o.OtherFee = nil
	o.DiscountPct = nil
	o.DiscountAmt = nil
	o.RoundRule = nil
	o.SkipProforma = nil
}
