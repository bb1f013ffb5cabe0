package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Retailer represents an ordering counterparty of the distributor.
// GSTIN and StateCode feed tax-type autodetection; a retailer may also
// carry a per-tenant override of the distributor's charge defaults.
type Retailer struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Email     *string        `gorm:"size:255" json:"email,omitempty"`
	Phone     *string        `gorm:"size:50" json:"phone,omitempty"`
	GSTIN     *string        `gorm:"size:20;column:gstin" json:"gstin,omitempty"`
	StateCode *string        `gorm:"size:10" json:"state_code,omitempty"`
	City      *string        `gorm:"size:100" json:"city,omitempty"`
	Address   *string        `gorm:"type:text" json:"address,omitempty"`
	Photo     *string        `gorm:"size:255" json:"photo,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Tenant Tenant  `gorm:"foreignKey:TenantID" json:"-"`
	User   User    `gorm:"foreignKey:UserID" json:"-"`
	Orders []Order `gorm:"foreignKey:RetailerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new retailer
func (r *Retailer) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Retailer model
func (Retailer) TableName() string {
	return "retailers"
}
