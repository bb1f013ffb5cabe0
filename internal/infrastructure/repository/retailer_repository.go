package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/domain/entity"
	domainRepo "github.com/stockpilot/stockpilot-api/internal/domain/repository"
	"github.com/stockpilot/stockpilot-api/pkg/pagination"
	"gorm.io/gorm"
)

type retailerRepository struct {
	db *gorm.DB
}

// NewRetailerRepository creates a new retailer repository
func NewRetailerRepository(db *gorm.DB) domainRepo.RetailerRepository {
	return &retailerRepository{db: db}
}

func (r *retailerRepository) Create(ctx context.Context, retailer *entity.Retailer) error {
	return r.db.WithContext(ctx).Create(retailer).Error
}

func (r *retailerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Retailer, error) {
	var retailer entity.Retailer
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&retailer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &retailer, err
}

func (r *retailerRepository) GetByEmail(ctx context.Context, email string) (*entity.Retailer, error) {
	var retailer entity.Retailer
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&retailer, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &retailer, err
}

func (r *retailerRepository) Update(ctx context.Context, retailer *entity.Retailer) error {
	return r.db.WithContext(ctx).Save(retailer).Error
}

func (r *retailerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Retailer{}, "id = ?", id).Error
}

func (r *retailerRepository) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) ([]entity.Retailer, int64, error) {
	var retailers []entity.Retailer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Retailer{}).Scopes(TenantScope(ctx))
	if !skipUserFilter {
		query = query.Where("user_id = ?", userID)
	}

	if search != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ? OR gstin ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&retailers).Error

	return retailers, total, err
}

// ListWithCursor returns retailers using cursor-based pagination
func (r *retailerRepository) ListWithCursor(ctx context.Context, userID uuid.UUID, params *pagination.CursorParams, search string, skipUserFilter bool) ([]entity.Retailer, error) {
	var retailers []entity.Retailer

	params.Validate()
	query := r.db.WithContext(ctx).Model(&entity.Retailer{}).Scopes(TenantScope(ctx))
	if !skipUserFilter {
		query = query.Where("user_id = ?", userID)
	}

	if search != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ? OR gstin ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	cursor, err := params.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	err = query.Limit(params.Limit + 1).
		Order("created_at ASC, id ASC").
		Find(&retailers).Error

	return retailers, err
}
