package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/domain/entity"
	"github.com/stockpilot/stockpilot-api/pkg/pagination"
)

// RetailerRepository defines the interface for retailer data operations
type RetailerRepository interface {
	Create(ctx context.Context, retailer *entity.Retailer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Retailer, error)
	GetByEmail(ctx context.Context, email string) (*entity.Retailer, error)
	Update(ctx context.Context, retailer *entity.Retailer) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns retailers with page-based pagination. If skipUserFilter is true, returns all retailers.
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) ([]entity.Retailer, int64, error)
	// ListWithCursor returns retailers using cursor-based pagination. If skipUserFilter is true, returns all retailers.
	ListWithCursor(ctx context.Context, userID uuid.UUID, params *pagination.CursorParams, search string, skipUserFilter bool) ([]entity.Retailer, error)
}
