package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/domain/entity"
	"github.com/stockpilot/stockpilot-api/internal/domain/repository"
	infraRepo "github.com/stockpilot/stockpilot-api/internal/infrastructure/repository"
	"github.com/stockpilot/stockpilot-api/pkg/apperror"
	"github.com/stockpilot/stockpilot-api/pkg/pagination"
	"github.com/stockpilot/stockpilot-api/pkg/utils"
)

// ProductService handles catalog operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	UserID        uuid.UUID
	Name          string
	SKU           string
	Unit          string
	SellingPrice  float64
	Quantity      int
	QuantityAlert int
	Notes         *string
	ProductImage  *string
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	// Extract tenant ID from context
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	// Auto-generate SKU if not provided
	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		sku = utils.GenerateSKU()
	}

	// Check if SKU already exists
	existingProduct, err := s.productRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existingProduct != nil {
		return nil, apperror.NewConflictError("Product SKU already exists")
	}

	product := &entity.Product{
		TenantID:      tenantID,
		UserID:        input.UserID,
		Name:          input.Name,
		SKU:           sku,
		Unit:          input.Unit,
		SellingPrice:  input.SellingPrice,
		Quantity:      input.Quantity,
		QuantityAlert: input.QuantityAlert,
		Notes:         input.Notes,
		ProductImage:  input.ProductImage,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// GetProductBySKU retrieves a product by SKU
func (s *ProductService) GetProductBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	product, err := s.productRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, userID uuid.UUID, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	UserID        uuid.UUID
	ID            uuid.UUID
	SkipUserCheck bool // If true (super-admin), skip ownership check
	Name          *string
	SKU           *string
	Unit          *string
	SellingPrice  *float64
	Quantity      *int
	QuantityAlert *int
	Notes         *string
	ProductImage  *string
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	// Ensure user owns the product (unless super-admin)
	if !input.SkipUserCheck && product.UserID != input.UserID {
		return nil, apperror.ErrForbidden
	}

	// Check if new SKU is unique
	if input.SKU != nil && *input.SKU != product.SKU {
		existingProduct, err := s.productRepo.GetBySKU(ctx, *input.SKU)
		if err != nil {
			return nil, err
		}
		if existingProduct != nil && existingProduct.ID != product.ID {
			return nil, apperror.NewConflictError("Product SKU already exists")
		}
		product.SKU = *input.SKU
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.SellingPrice != nil {
		product.SellingPrice = *input.SellingPrice
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if input.QuantityAlert != nil {
		product.QuantityAlert = *input.QuantityAlert
	}
	if input.Notes != nil {
		product.Notes = input.Notes
	}
	if input.ProductImage != nil {
		product.ProductImage = input.ProductImage
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct deletes a product
// If skipOwnerCheck is true (e.g., for super-admins), ownership check is bypassed
func (s *ProductService) DeleteProduct(ctx context.Context, userID, id uuid.UUID, skipOwnerCheck bool) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	// Only check ownership if not a super-admin
	if !skipOwnerCheck && product.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.productRepo.Delete(ctx, product.ID)
}

// GetLowStockProducts returns products with low stock
func (s *ProductService) GetLowStockProducts(ctx context.Context, userID uuid.UUID) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx, userID)
}

// ImportProductRow represents a single row from the import file
type ImportProductRow struct {
	Name          string
	SKU           string
	Unit          string
	SellingPrice  float64
	Quantity      int
	QuantityAlert int
	Notes         string
}

// ImportResult contains the result of a product import operation
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportProducts validates and bulk-creates products from parsed import rows
func (s *ProductService) ImportProducts(ctx context.Context, userID uuid.UUID, rows []ImportProductRow) (*ImportResult, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	result := &ImportResult{TotalRows: len(rows)}
	var rowErrors []ImportRowError

	// Track SKUs seen in this import batch to detect duplicates within the file
	seenSKUs := make(map[string]int) // sku -> row number (1-indexed)

	var validProducts []entity.Product

	for i, row := range rows {
		rowNum := i + 2 // +2 because row 1 is the header, data starts at row 2

		// Validate required fields
		name := strings.TrimSpace(row.Name)
		if name == "" {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "name", Message: "Name is required"})
			continue
		}

		// Auto-generate SKU if empty
		sku := strings.TrimSpace(row.SKU)
		if sku == "" {
			sku = utils.GenerateSKU()
		}

		// Check for duplicate SKU within the file
		if prevRow, exists := seenSKUs[sku]; exists {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "sku",
				Message: fmt.Sprintf("Duplicate SKU '%s' (same as row %d)", sku, prevRow),
			})
			continue
		}

		// Check if SKU already exists in DB
		existingProduct, err := s.productRepo.GetBySKU(ctx, sku)
		if err != nil {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "sku", Message: "Error checking SKU: " + err.Error()})
			continue
		}
		if existingProduct != nil {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "sku",
				Message: fmt.Sprintf("Product SKU '%s' already exists", sku),
			})
			continue
		}

		seenSKUs[sku] = rowNum

		product := entity.Product{
			TenantID:      tenantID,
			UserID:        userID,
			Name:          name,
			SKU:           sku,
			Unit:          strings.TrimSpace(row.Unit),
			SellingPrice:  row.SellingPrice,
			Quantity:      row.Quantity,
			QuantityAlert: row.QuantityAlert,
		}

		if row.Notes != "" {
			notes := row.Notes
			product.Notes = &notes
		}

		validProducts = append(validProducts, product)
	}

	// Batch create valid products
	if len(validProducts) > 0 {
		if err := s.productRepo.CreateBatch(ctx, validProducts); err != nil {
			return nil, apperror.NewAppError(500, "Failed to import products: "+err.Error())
		}
	}

	result.Successful = len(validProducts)
	result.Failed = len(rowErrors)
	result.Errors = rowErrors

	return result, nil
}
