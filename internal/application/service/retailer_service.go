package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/domain/entity"
	"github.com/stockpilot/stockpilot-api/internal/domain/repository"
	infraRepo "github.com/stockpilot/stockpilot-api/internal/infrastructure/repository"
	"github.com/stockpilot/stockpilot-api/pkg/apperror"
	"github.com/stockpilot/stockpilot-api/pkg/pagination"
)

// RetailerService handles retailer-related operations
type RetailerService struct {
	retailerRepo repository.RetailerRepository
}

// NewRetailerService creates a new retailer service
func NewRetailerService(retailerRepo repository.RetailerRepository) *RetailerService {
	return &RetailerService{retailerRepo: retailerRepo}
}

// CreateRetailerInput represents the create retailer input
type CreateRetailerInput struct {
	UserID    uuid.UUID
	Name      string
	Email     *string
	Phone     *string
	GSTIN     *string
	StateCode *string
	City      *string
	Address   *string
	Photo     *string
}

// CreateRetailer creates a new retailer
func (s *RetailerService) CreateRetailer(ctx context.Context, input *CreateRetailerInput) (*entity.Retailer, error) {
	// Extract tenant ID from context
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	retailer := &entity.Retailer{
		TenantID:  tenantID,
		UserID:    input.UserID,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		GSTIN:     input.GSTIN,
		StateCode: input.StateCode,
		City:      input.City,
		Address:   input.Address,
		Photo:     input.Photo,
	}

	if err := s.retailerRepo.Create(ctx, retailer); err != nil {
		return nil, err
	}

	return retailer, nil
}

// GetRetailer retrieves a retailer by ID
func (s *RetailerService) GetRetailer(ctx context.Context, id uuid.UUID) (*entity.Retailer, error) {
	retailer, err := s.retailerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if retailer == nil {
		return nil, apperror.NewNotFoundError("Retailer")
	}
	return retailer, nil
}

// ListRetailers lists retailers. If isSuperAdmin is true, returns all retailers.
func (s *RetailerService) ListRetailers(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, isSuperAdmin bool) (*pagination.PaginatedResult[entity.Retailer], error) {
	retailers, total, err := s.retailerRepo.List(ctx, userID, params, search, isSuperAdmin)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(retailers, pag), nil
}

// ListRetailersWithCursor lists retailers using cursor-based pagination. If isSuperAdmin is true, returns all retailers.
func (s *RetailerService) ListRetailersWithCursor(ctx context.Context, userID uuid.UUID, params *pagination.CursorParams, search string, isSuperAdmin bool) (*pagination.CursorPaginatedResult[entity.Retailer], error) {
	retailers, err := s.retailerRepo.ListWithCursor(ctx, userID, params, search, isSuperAdmin)
	if err != nil {
		return nil, err
	}

	// Determine if there was a cursor provided (meaning we're not on first page)
	hasPrev := params.Cursor != ""

	// Build cursor pagination response
	cursorPag, items := pagination.NewCursorPagination(retailers, params.Limit,
		func(r entity.Retailer) string { return r.ID.String() },
		func(r entity.Retailer) time.Time { return r.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// UpdateRetailerInput represents the update retailer input
type UpdateRetailerInput struct {
	UserID       uuid.UUID
	ID           uuid.UUID
	IsSuperAdmin bool
	Name         *string
	Email        *string
	Phone        *string
	GSTIN        *string
	StateCode    *string
	City         *string
	Address      *string
	Photo        *string
}

// UpdateRetailer updates a retailer
func (s *RetailerService) UpdateRetailer(ctx context.Context, input *UpdateRetailerInput) (*entity.Retailer, error) {
	retailer, err := s.retailerRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if retailer == nil {
		return nil, apperror.NewNotFoundError("Retailer")
	}

	// Super-admin can update any retailer, regular users can only update their own
	if !input.IsSuperAdmin && retailer.UserID != input.UserID {
		return nil, apperror.ErrForbidden
	}

	if input.Name != nil {
		retailer.Name = *input.Name
	}
	if input.Email != nil {
		retailer.Email = input.Email
	}
	if input.Phone != nil {
		retailer.Phone = input.Phone
	}
	if input.GSTIN != nil {
		retailer.GSTIN = input.GSTIN
	}
	if input.StateCode != nil {
		retailer.StateCode = input.StateCode
	}
	if input.City != nil {
		retailer.City = input.City
	}
	if input.Address != nil {
		retailer.Address = input.Address
	}
	if input.Photo != nil {
		retailer.Photo = input.Photo
	}

	if err := s.retailerRepo.Update(ctx, retailer); err != nil {
		return nil, err
	}

	return retailer, nil
}

// DeleteRetailer deletes a retailer
func (s *RetailerService) DeleteRetailer(ctx context.Context, userID, id uuid.UUID, isSuperAdmin bool) error {
	retailer, err := s.retailerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if retailer == nil {
		return apperror.NewNotFoundError("Retailer")
	}

	// Super-admin can delete any retailer, regular users can only delete their own
	if !isSuperAdmin && retailer.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.retailerRepo.Delete(ctx, id)
}
