package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/domain/entity"
)

// ChargeDefaultsRepository defines the interface for tenant-wide charge
// defaults. Writes are plain upserts: last write wins, no version token.
type ChargeDefaultsRepository interface {
	GetByTenantID(ctx context.Context, tenantID uuid.UUID) (*entity.ChargeDefaults, error)
	Create(ctx context.Context, defaults *entity.ChargeDefaults) error
	Update(ctx context.Context, defaults *entity.ChargeDefaults) error
}

// RetailerOverrideRepository defines the interface for per-retailer
// charge overrides.
type RetailerOverrideRepository interface {
	GetByRetailerID(ctx context.Context, tenantID, retailerID uuid.UUID) (*entity.RetailerChargeOverride, error)
	Create(ctx context.Context, override *entity.RetailerChargeOverride) error
	Update(ctx context.Context, override *entity.RetailerChargeOverride) error
}
