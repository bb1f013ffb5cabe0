package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/domain/enum"
	"gorm.io/gorm"
)

// ChargeDefaults holds a distributor's tenant-wide order charge
// configuration: discounts, fees, tax rates and rounding. One row per
// tenant, created lazily on first save. When no row exists callers get
// BaseChargeDefaults instead.
type ChargeDefaults struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"tenant_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	UpdatedBy *uuid.UUID     `gorm:"type:uuid" json:"updated_by,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Enabled           bool           `gorm:"default:false" json:"enabled"`
	TaxType           *enum.TaxType  `gorm:"size:20" json:"tax_type"`
	AutodetectTaxType bool           `gorm:"default:true" json:"autodetect_tax_type"`
	GSTRate           float64        `gorm:"default:18" json:"gst_rate"`
	CGSTRate          float64        `gorm:"default:9" json:"cgst_rate"`
	SGSTRate          float64        `gorm:"default:9" json:"sgst_rate"`
	IGSTRate          float64        `gorm:"default:18" json:"igst_rate"`
	DeliveryFee       float64        `gorm:"default:0" json:"delivery_fee"`
	PackingFee        float64        `gorm:"default:0" json:"packing_fee"`
	InsuranceFee      float64        `gorm:"default:0" json:"insurance_fee"`
	OtherFee          float64        `gorm:"default:0" json:"other_fee"`
	DiscountPct       float64        `gorm:"default:0" json:"discount_pct"`
	DiscountAmt       float64        `gorm:"default:0" json:"discount_amt"`
	RoundRule         enum.RoundRule `gorm:"size:10;default:'nearest'" json:"round_rule"`
	SkipProforma      bool           `gorm:"default:false" json:"skip_proforma"`

	// Relationships
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

// BeforeCreate generates a UUID before creating new charge defaults
func (d *ChargeDefaults) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ChargeDefaults model
func (ChargeDefaults) TableName() string {
	return "charge_defaults"
}

// BaseChargeDefaults returns the built-in configuration used when a
// tenant has never saved charge settings. Standard 9%+9% intrastate and
// 18% interstate GST rates, nearest-rupee rounding, no fees or discount.
func BaseChargeDefaults(tenantID uuid.UUID) *ChargeDefaults {
	return &ChargeDefaults{
		TenantID:          tenantID,
		Enabled:           false,
		AutodetectTaxType: true,
		GSTRate:           18,
		CGSTRate:          9,
		SGSTRate:          9,
		IGSTRate:          18,
		RoundRule:         enum.RoundRuleNearest,
	}
}
