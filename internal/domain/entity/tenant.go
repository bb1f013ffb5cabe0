package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant represents a distributor business account in the multitenant
// system. Its BusinessProfile carries the GSTIN/state code used as the
// distributor-side tax profile when resolving intrastate vs interstate
// tax on orders.
type Tenant struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Slug      string          `gorm:"size:255;unique;not null" json:"slug"`
	OwnerID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"owner_id"`
	Profile   BusinessProfile `gorm:"type:jsonb;serializer:json" json:"profile"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Owner   User               `gorm:"foreignKey:OwnerID" json:"-"`
	Members []TenantMembership `gorm:"foreignKey:TenantID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new tenant
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}

// MemberUser represents a subset of user fields for membership responses
type MemberUser struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// TenantMembership represents a user's membership in a tenant
type TenantMembership struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"tenant_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role      string    `gorm:"size:50;default:'member'" json:"role"` // owner, admin, member
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	// Computed field for JSON response
	MemberUser *MemberUser `gorm:"-" json:"user,omitempty"`
}

// PopulateUserDetails populates the MemberUser field from the User relationship
func (tm *TenantMembership) PopulateUserDetails() {
	if tm.User.ID != uuid.Nil {
		tm.MemberUser = &MemberUser{
			ID:        tm.User.ID,
			FirstName: tm.User.FirstName,
			LastName:  tm.User.LastName,
			Email:     tm.User.Email,
		}
	}
}

// TableName returns the table name for the TenantMembership model
func (TenantMembership) TableName() string {
	return "tenant_memberships"
}

// BusinessProfile holds the distributor's business identity and
// customizable configuration.
type BusinessProfile struct {
	// Legal identity
	LegalName string `json:"legal_name,omitempty"`
	GSTIN     string `json:"gstin,omitempty"`
	StateCode string `json:"state_code,omitempty"`
	PAN       string `json:"pan,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	Phone     string `json:"phone,omitempty"`

	// Branding & Appearance
	LogoURL      string `json:"logo_url,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`

	// Localization
	Currency   string `json:"currency,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
	Locale     string `json:"locale,omitempty"`
	DateFormat string `json:"date_format,omitempty"`

	// Business Configuration
	InvoicePrefix string `json:"invoice_prefix,omitempty"`

	// Feature Flags
	Features TenantFeatures `json:"features,omitempty"`
}

// Scan implements the sql.Scanner interface for BusinessProfile
func (bp *BusinessProfile) Scan(value interface{}) error {
	if value == nil {
		*bp = BusinessProfile{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan BusinessProfile: unsupported type")
	}

	return json.Unmarshal(bytes, bp)
}

// Value implements the driver.Valuer interface for BusinessProfile
func (bp BusinessProfile) Value() (driver.Value, error) {
	return json.Marshal(bp)
}

// TenantFeatures holds feature flags for a tenant
type TenantFeatures struct {
	EnableComputedCharges bool `json:"computed_charges"`
	EnableInventory       bool `json:"inventory"`
	EnableMultiUser       bool `json:"multi_user"`
	EnableAPIAccess       bool `json:"api_access"`
}

// DefaultBusinessProfile returns default profile values for new tenants
func DefaultBusinessProfile() BusinessProfile {
	return BusinessProfile{
		Currency:      "INR",
		Timezone:      "Asia/Kolkata",
		Locale:        "en-IN",
		DateFormat:    "DD/MM/YYYY",
		InvoicePrefix: "INV-",
		Features: TenantFeatures{
			EnableComputedCharges: true,
			EnableInventory:       true,
			EnableMultiUser:       true,
			EnableAPIAccess:       false,
		},
	}
}
