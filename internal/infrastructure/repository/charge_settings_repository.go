package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/domain/entity"
	"github.com/stockpilot/stockpilot-api/internal/domain/repository"
	"gorm.io/gorm"
)

type chargeDefaultsRepository struct {
	db *gorm.DB
}

// NewChargeDefaultsRepository creates a new charge defaults repository
func NewChargeDefaultsRepository(db *gorm.DB) repository.ChargeDefaultsRepository {
	return &chargeDefaultsRepository{db: db}
}

// GetByTenantID retrieves the tenant-wide charge defaults
func (r *chargeDefaultsRepository) GetByTenantID(ctx context.Context, tenantID uuid.UUID) (*entity.ChargeDefaults, error) {
	var defaults entity.ChargeDefaults
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&defaults).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &defaults, nil
}

// Create creates the tenant's charge defaults row
func (r *chargeDefaultsRepository) Create(ctx context.Context, defaults *entity.ChargeDefaults) error {
	return r.db.WithContext(ctx).Create(defaults).Error
}

// Update saves the tenant's charge defaults. Last write wins.
func (r *chargeDefaultsRepository) Update(ctx context.Context, defaults *entity.ChargeDefaults) error {
	return r.db.WithContext(ctx).Save(defaults).Error
}

type retailerOverrideRepository struct {
	db *gorm.DB
}

// NewRetailerOverrideRepository creates a new retailer override repository
func NewRetailerOverrideRepository(db *gorm.DB) repository.RetailerOverrideRepository {
	return &retailerOverrideRepository{db: db}
}

// GetByRetailerID retrieves the override row for a retailer, nil when none exists
func (r *retailerOverrideRepository) GetByRetailerID(ctx context.Context, tenantID, retailerID uuid.UUID) (*entity.RetailerChargeOverride, error) {
	var override entity.RetailerChargeOverride
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND retailer_id = ?", tenantID, retailerID).
		First(&override).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &override, nil
}

// Create creates a new override row
func (r *retailerOverrideRepository) Create(ctx context.Context, override *entity.RetailerChargeOverride) error {
	return r.db.WithContext(ctx).Create(override).Error
}

// Update saves an existing override row. Last write wins.
func (r *retailerOverrideRepository) Update(ctx context.Context, override *entity.RetailerChargeOverride) error {
	return r.db.WithContext(ctx).Save(override).Error
}
