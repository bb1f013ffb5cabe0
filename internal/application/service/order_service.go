package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/domain/charges"
	"github.com/stockpilot/stockpilot-api/internal/domain/entity"
	"github.com/stockpilot/stockpilot-api/internal/domain/enum"
	"github.com/stockpilot/stockpilot-api/internal/domain/repository"
	infraRepo "github.com/stockpilot/stockpilot-api/internal/infrastructure/repository"
	"github.com/stockpilot/stockpilot-api/pkg/apperror"
	"github.com/stockpilot/stockpilot-api/pkg/pagination"
	"github.com/stockpilot/stockpilot-api/pkg/utils"
)

// OrderService handles order-related operations. Order creation runs
// the same estimator and charges engine as the settings preview, then
// snapshots the resulting breakdown onto the order row.
type OrderService struct {
	orderRepo      repository.OrderRepository
	orderItemRepo  repository.OrderItemRepository
	productRepo    repository.ProductRepository
	retailerRepo   repository.RetailerRepository
	chargeSettings *ChargeSettingsService
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	orderItemRepo repository.OrderItemRepository,
	productRepo repository.ProductRepository,
	retailerRepo repository.RetailerRepository,
	chargeSettings *ChargeSettingsService,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		orderItemRepo:  orderItemRepo,
		productRepo:    productRepo,
		retailerRepo:   retailerRepo,
		chargeSettings: chargeSettings,
	}
}

// OrderItemInput represents an item in an order request
type OrderItemInput struct {
	ProductID       *uuid.UUID
	SKU             string
	Name            string
	Unit            string
	ImageURL        string
	Qty             float64
	Price           float64
	ItemDiscountPct float64
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	UserID     uuid.UUID
	RetailerID uuid.UUID
	Items      []OrderItemInput
}

// CreateOrder creates a new order: estimates the line items, computes
// the charge breakdown under the retailer's effective configuration,
// decrements stock for catalog-backed lines and persists the order with
// its items.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	// Extract tenant ID from context
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Order must contain at least one item")
	}

	retailer, err := s.retailerRepo.GetByID(ctx, input.RetailerID)
	if err != nil {
		return nil, err
	}
	if retailer == nil {
		return nil, apperror.NewNotFoundError("Retailer")
	}

	// Batch fetch referenced products in one query (prevents N+1)
	var productIDs []uuid.UUID
	for _, item := range input.Items {
		if item.ProductID != nil {
			productIDs = append(productIDs, *item.ProductID)
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	// Build engine lines, falling back to catalog data for fields the
	// request leaves empty.
	lines := make([]charges.LineItem, 0, len(input.Items))
	stockDecrements := make(map[uuid.UUID]int)
	for _, item := range input.Items {
		line := charges.LineItem{
			SKU:             item.SKU,
			Name:            item.Name,
			Unit:            item.Unit,
			ImageURL:        item.ImageURL,
			Qty:             item.Qty,
			Price:           item.Price,
			ItemDiscountPct: item.ItemDiscountPct,
		}

		if item.ProductID != nil {
			product, exists := productMap[*item.ProductID]
			if !exists {
				return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", *item.ProductID))
			}
			if line.SKU == "" {
				line.SKU = product.SKU
			}
			if line.Name == "" {
				line.Name = product.Name
			}
			if line.Unit == "" {
				line.Unit = product.Unit
			}
			if line.Price == 0 {
				line.Price = product.SellingPrice
			}
			stockDecrements[product.ID] += int(math.Ceil(item.Qty))
		}

		if line.Name == "" {
			return nil, apperror.NewBadRequestError("Order item requires a name or product reference")
		}

		lines = append(lines, line)
	}

	est := charges.Estimate(lines)

	eff, err := s.chargeSettings.GetEffectiveDefaults(ctx, input.RetailerID)
	if err != nil {
		return nil, err
	}

	distributor, err := s.chargeSettings.distributorProfile(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	breakdown := charges.Compute(est.SubTotal, *eff, distributor, retailerProfile(retailer))

	// Atomically decrement stock - race-condition safe. If any product
	// has insufficient stock the entire operation fails.
	failedIDs, err := s.productRepo.AtomicDecrementBatch(ctx, stockDecrements)
	if err != nil {
		return nil, err
	}

	if len(failedIDs) > 0 {
		var failedNames []string
		for _, id := range failedIDs {
			if product, exists := productMap[id]; exists {
				failedNames = append(failedNames, product.Name)
			}
		}
		return nil, apperror.NewAppError(400, fmt.Sprintf("Insufficient stock for: %v", failedNames))
	}

	order := &entity.Order{
		TenantID:       tenantID,
		UserID:         input.UserID,
		RetailerID:     input.RetailerID,
		OrderDate:      time.Now(),
		Status:         enum.OrderStatusRequested,
		InvoiceNo:      s.generateInvoiceNo(ctx, tenantID),
		TaxType:        breakdown.TaxType,
		SubTotal:       breakdown.SubTotal,
		DiscountAmt:    breakdown.DiscountAmt,
		DeliveryFee:    breakdown.DeliveryFee,
		PackingFee:     breakdown.PackingFee,
		InsuranceFee:   breakdown.InsuranceFee,
		OtherFee:       breakdown.OtherFee,
		TaxableBase:    breakdown.TaxableBase,
		CGST:           breakdown.TaxBreakup.CGST,
		SGST:           breakdown.TaxBreakup.SGST,
		IGST:           breakdown.TaxBreakup.IGST,
		Taxes:          breakdown.Taxes,
		RoundOff:       breakdown.RoundOff,
		GrandTotal:     breakdown.GrandTotal,
		ChargesVersion: breakdown.Version,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		// Stock was already decremented - restore it
		_ = s.productRepo.AtomicIncrementBatch(ctx, stockDecrements)
		return nil, err
	}

	items := make([]entity.OrderItem, 0, len(est.Lines))
	for i, line := range est.Lines {
		item := entity.OrderItem{
			OrderID:         order.ID,
			ProductID:       input.Items[i].ProductID,
			SKU:             line.SKU,
			Name:            line.Name,
			Unit:            line.Unit,
			Qty:             line.Qty,
			Price:           line.Price,
			ItemDiscountPct: line.ItemDiscountPct,
			Gross:           line.Gross,
			DiscountAmount:  line.DiscountAmount,
			Taxable:         line.Taxable,
		}
		if line.ImageURL != "" {
			url := line.ImageURL
			item.ImageURL = &url
		}
		items = append(items, item)
	}

	if err := s.orderItemRepo.CreateBatch(ctx, items); err != nil {
		// Restore stock on failure
		_ = s.productRepo.AtomicIncrementBatch(ctx, stockDecrements)
		return nil, err
	}

	return s.orderRepo.GetWithItems(ctx, order.ID)
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, total, err := s.orderRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// ListOrdersWithCursor lists orders with cursor-based pagination
func (s *OrderService) ListOrdersWithCursor(ctx context.Context, userID uuid.UUID, params *repository.OrderCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Order], error) {
	orders, err := s.orderRepo.ListWithCursor(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(orders, params.Cursor.Limit,
		func(o entity.Order) string { return o.ID.String() },
		func(o entity.Order) time.Time { return o.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// UpdateOrderStatus updates the status of an order
func (s *OrderService) UpdateOrderStatus(ctx context.Context, userID, orderID uuid.UUID, status enum.OrderStatus) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}

	if order.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.orderRepo.UpdateStatus(ctx, orderID, status)
}

// CancelOrder cancels an order and restores stock for catalog-backed lines
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) error {
	order, err := s.orderRepo.GetWithItems(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}

	if order.UserID != userID {
		return apperror.ErrForbidden
	}

	if order.Status == enum.OrderStatusCancelled {
		return apperror.NewAppError(400, "Order is already cancelled")
	}

	// Restore stock for lines that referenced catalog products
	stockIncrements := make(map[uuid.UUID]int)
	for _, item := range order.Items {
		if item.ProductID != nil {
			stockIncrements[*item.ProductID] += int(math.Ceil(item.Qty))
		}
	}

	if err := s.productRepo.AtomicIncrementBatch(ctx, stockIncrements); err != nil {
		return err
	}

	return s.orderRepo.UpdateStatus(ctx, orderID, enum.OrderStatusCancelled)
}

// generateInvoiceNo builds an invoice number using the tenant's
// configured prefix when one is set.
func (s *OrderService) generateInvoiceNo(ctx context.Context, tenantID uuid.UUID) string {
	prefix := "INV"
	if tenant, err := s.chargeSettings.tenantRepo.GetByID(ctx, tenantID); err == nil && tenant != nil {
		if tenant.Profile.InvoicePrefix != "" {
			prefix = tenant.Profile.InvoicePrefix
		}
	}
	return utils.GenerateInvoiceNo(prefix)
}
