package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/domain/entity"
	"github.com/stockpilot/stockpilot-api/internal/domain/enum"
	"github.com/stockpilot/stockpilot-api/internal/domain/repository"
	infraRepo "github.com/stockpilot/stockpilot-api/internal/infrastructure/repository"
	"github.com/stretchr/testify/require"
)

var errDatabaseDown = errors.New("database down")

type fakeOrderRepo struct {
	repository.OrderRepository
	orders    map[uuid.UUID]*entity.Order
	items     *fakeOrderItemRepo
	createErr error
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return f.orders[id], nil
}

func (f *fakeOrderRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	order.Items = nil
	for _, item := range f.items.items {
		if item.OrderID == id {
			order.Items = append(order.Items, item)
		}
	}
	return order, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	if order, ok := f.orders[id]; ok {
		order.Status = status
	}
	return nil
}

type fakeOrderItemRepo struct {
	repository.OrderItemRepository
	items     []entity.OrderItem
	createErr error
}

func (f *fakeOrderItemRepo) CreateBatch(ctx context.Context, items []entity.OrderItem) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.items = append(f.items, items...)
	return nil
}

type fakeProductRepo struct {
	repository.ProductRepository
	products   map[uuid.UUID]*entity.Product
	increments map[uuid.UUID]int
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	var failedIDs []uuid.UUID
	for id, qty := range decrements {
		if p, ok := f.products[id]; !ok || p.Quantity < qty {
			failedIDs = append(failedIDs, id)
		}
	}
	if len(failedIDs) > 0 {
		return failedIDs, nil
	}
	for id, qty := range decrements {
		f.products[id].Quantity -= qty
	}
	return nil, nil
}

func (f *fakeProductRepo) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error {
	for id, qty := range increments {
		f.increments[id] += qty
		if p, ok := f.products[id]; ok {
			p.Quantity += qty
		}
	}
	return nil
}

type orderFixture struct {
	svc        *OrderService
	orders     *fakeOrderRepo
	orderItems *fakeOrderItemRepo
	products   *fakeProductRepo
	ctx        context.Context
	tenantID   uuid.UUID
	retailerID uuid.UUID
	userID     uuid.UUID
	dalID      uuid.UUID
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	tenantID := uuid.New()
	retailerID := uuid.New()
	dalID := uuid.New()

	defaults := &fakeDefaultsRepo{defaults: entity.BaseChargeDefaults(tenantID)}
	defaults.defaults.Enabled = true

	retailerState := "27"
	retailers := &fakeRetailerRepo{retailer: &entity.Retailer{
		ID:        retailerID,
		TenantID:  tenantID,
		Name:      "Sharma General Store",
		StateCode: &retailerState,
	}}
	tenants := &fakeTenantRepo{tenant: &entity.Tenant{
		ID: tenantID,
		Profile: entity.BusinessProfile{
			GSTIN:         "27AAAAA0000A1Z5",
			StateCode:     "27",
			InvoicePrefix: "SGT",
		},
	}}

	orderItems := &fakeOrderItemRepo{}
	orders := &fakeOrderRepo{orders: make(map[uuid.UUID]*entity.Order), items: orderItems}
	products := &fakeProductRepo{
		products: map[uuid.UUID]*entity.Product{
			dalID: {
				ID:           dalID,
				TenantID:     tenantID,
				Name:         "Toor Dal 1kg",
				SKU:          "DAL-TOOR-1KG",
				Unit:         "kg",
				SellingPrice: 100,
				Quantity:     50,
			},
		},
		increments: make(map[uuid.UUID]int),
	}

	chargeSettings := NewChargeSettingsService(defaults, &fakeOverrideRepo{}, retailers, tenants)

	return &orderFixture{
		svc:        NewOrderService(orders, orderItems, products, retailers, chargeSettings),
		orders:     orders,
		orderItems: orderItems,
		products:   products,
		ctx:        infraRepo.WithTenant(context.Background(), tenantID),
		tenantID:   tenantID,
		retailerID: retailerID,
		userID:     uuid.New(),
		dalID:      dalID,
	}
}

func TestCreateOrderSnapshotsBreakdown(t *testing.T) {
	t.Parallel()

	fx := newOrderFixture(t)

	order, err := fx.svc.CreateOrder(fx.ctx, &CreateOrderInput{
		UserID:     fx.userID,
		RetailerID: fx.retailerID,
		Items: []OrderItemInput{
			{ProductID: &fx.dalID, Qty: 10},
		},
	})
	require.NoError(t, err)

	require.Equal(t, enum.OrderStatusRequested, order.Status)
	require.True(t, strings.HasPrefix(order.InvoiceNo, "SGT-"))
	require.Equal(t, fx.tenantID, order.TenantID)

	// 10 x 100 intrastate at 18% split
	require.Equal(t, 1000.0, order.SubTotal)
	require.Equal(t, enum.TaxTypeCGSTSGST, order.TaxType)
	require.Equal(t, 90.0, order.CGST)
	require.Equal(t, 90.0, order.SGST)
	require.Zero(t, order.IGST)
	require.Equal(t, 1180.0, order.GrandTotal)
	require.Equal(t, 1, order.ChargesVersion)

	// stock decremented for the catalog line
	require.Equal(t, 40, fx.products.products[fx.dalID].Quantity)

	require.Len(t, order.Items, 1)
	require.Equal(t, "DAL-TOOR-1KG", order.Items[0].SKU)
	require.Equal(t, 1000.0, order.Items[0].Taxable)
}

func TestCreateOrderRequiresTenant(t *testing.T) {
	t.Parallel()

	fx := newOrderFixture(t)

	_, err := fx.svc.CreateOrder(context.Background(), &CreateOrderInput{
		UserID:     fx.userID,
		RetailerID: fx.retailerID,
		Items:      []OrderItemInput{{Name: "Sugar 1kg", Qty: 1, Price: 45}},
	})
	require.Error(t, err)
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	t.Parallel()

	fx := newOrderFixture(t)

	_, err := fx.svc.CreateOrder(fx.ctx, &CreateOrderInput{
		UserID:     fx.userID,
		RetailerID: fx.retailerID,
	})
	require.Error(t, err)
}

func TestCreateOrderUnknownRetailer(t *testing.T) {
	t.Parallel()

	fx := newOrderFixture(t)

	_, err := fx.svc.CreateOrder(fx.ctx, &CreateOrderInput{
		UserID:     fx.userID,
		RetailerID: uuid.New(),
		Items:      []OrderItemInput{{Name: "Sugar 1kg", Qty: 1, Price: 45}},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Retailer")
}

func TestCreateOrderCatalogFallbackFillsLineFields(t *testing.T) {
	t.Parallel()

	fx := newOrderFixture(t)

	// the request carries only the product reference and quantity
	order, err := fx.svc.CreateOrder(fx.ctx, &CreateOrderInput{
		UserID:     fx.userID,
		RetailerID: fx.retailerID,
		Items: []OrderItemInput{
			{ProductID: &fx.dalID, Qty: 2},
		},
	})
	require.NoError(t, err)

	item := order.Items[0]
	require.Equal(t, "Toor Dal 1kg", item.Name)
	require.Equal(t, "DAL-TOOR-1KG", item.SKU)
	require.Equal(t, "kg", item.Unit)
	require.Equal(t, 100.0, item.Price)
	require.Equal(t, 200.0, item.Gross)
}

func TestCreateOrderRequestPriceBeatsCatalogPrice(t *testing.T) {
	t.Parallel()

	fx := newOrderFixture(t)

	// a negotiated price on the line is kept over the catalog price
	order, err := fx.svc.CreateOrder(fx.ctx, &CreateOrderInput{
		UserID:     fx.userID,
		RetailerID: fx.retailerID,
		Items: []OrderItemInput{
			{ProductID: &fx.dalID, Qty: 5, Price: 92},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 92.0, order.Items[0].Price)
	require.Equal(t, 460.0, order.SubTotal)
}

func TestCreateOrderNamelessAdHocLineRejected(t *testing.T) {
	t.Parallel()

	fx := newOrderFixture(t)

	_, err := fx.svc.CreateOrder(fx.ctx, &CreateOrderInput{
		UserID:     fx.userID,
		RetailerID: fx.retailerID,
		Items:      []OrderItemInput{{Qty: 2, Price: 50}},
	})
	require.Error(t, err)
	require.Empty(t, fx.orders.orders)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	t.Parallel()

	fx := newOrderFixture(t)
	missing := uuid.New()

	_, err := fx.svc.CreateOrder(fx.ctx, &CreateOrderInput{
		UserID:     fx.userID,
		RetailerID: fx.retailerID,
		Items:      []OrderItemInput{{ProductID: &missing, Qty: 1}},
	})
	require.Error(t, err)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	t.Parallel()

	fx := newOrderFixture(t)

	_, err := fx.svc.CreateOrder(fx.ctx, &CreateOrderInput{
		UserID:     fx.userID,
		RetailerID: fx.retailerID,
		Items:      []OrderItemInput{{ProductID: &fx.dalID, Qty: 100}},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Toor Dal 1kg")

	// nothing was persisted and stock is untouched
	require.Empty(t, fx.orders.orders)
	require.Equal(t, 50, fx.products.products[fx.dalID].Quantity)
}

func TestCreateOrderRestoresStockWhenPersistFails(t *testing.T) {
	t.Parallel()

	fx := newOrderFixture(t)
	fx.orders.createErr = errDatabaseDown

	_, err := fx.svc.CreateOrder(fx.ctx, &CreateOrderInput{
		UserID:     fx.userID,
		RetailerID: fx.retailerID,
		Items:      []OrderItemInput{{ProductID: &fx.dalID, Qty: 10}},
	})
	require.Error(t, err)
	require.Equal(t, 10, fx.products.increments[fx.dalID])
	require.Equal(t, 50, fx.products.products[fx.dalID].Quantity)
}

func TestCreateOrderRestoresStockWhenItemsFail(t *testing.T) {
	t.Parallel()

	fx := newOrderFixture(t)
	fx.orderItems.createErr = errDatabaseDown

	_, err := fx.svc.CreateOrder(fx.ctx, &CreateOrderInput{
		UserID:     fx.userID,
		RetailerID: fx.retailerID,
		Items:      []OrderItemInput{{ProductID: &fx.dalID, Qty: 10}},
	})
	require.Error(t, err)
	require.Equal(t, 50, fx.products.products[fx.dalID].Quantity)
}

func TestCreateOrderFractionalQtyReservesWholeUnits(t *testing.T) {
	t.Parallel()

	fx := newOrderFixture(t)

	_, err := fx.svc.CreateOrder(fx.ctx, &CreateOrderInput{
		UserID:     fx.userID,
		RetailerID: fx.retailerID,
		Items:      []OrderItemInput{{ProductID: &fx.dalID, Qty: 2.5}},
	})
	require.NoError(t, err)
	require.Equal(t, 47, fx.products.products[fx.dalID].Quantity)
}

func TestCreateOrderInterstateUsesIGST(t *testing.T) {
	t.Parallel()

	fx := newOrderFixture(t)
	otherState := "29"
	fx.svc.retailerRepo.(*fakeRetailerRepo).retailer.StateCode = &otherState

	order, err := fx.svc.CreateOrder(fx.ctx, &CreateOrderInput{
		UserID:     fx.userID,
		RetailerID: fx.retailerID,
		Items:      []OrderItemInput{{ProductID: &fx.dalID, Qty: 10}},
	})
	require.NoError(t, err)
	require.Equal(t, enum.TaxTypeIGST, order.TaxType)
	require.Equal(t, 180.0, order.IGST)
	require.Zero(t, order.CGST)
	require.Zero(t, order.SGST)
}

func TestCancelOrderRestoresStock(t *testing.T) {
	t.Parallel()

	fx := newOrderFixture(t)

	order, err := fx.svc.CreateOrder(fx.ctx, &CreateOrderInput{
		UserID:     fx.userID,
		RetailerID: fx.retailerID,
		Items:      []OrderItemInput{{ProductID: &fx.dalID, Qty: 10}},
	})
	require.NoError(t, err)
	require.Equal(t, 40, fx.products.products[fx.dalID].Quantity)

	require.NoError(t, fx.svc.CancelOrder(fx.ctx, fx.userID, order.ID))
	require.Equal(t, 50, fx.products.products[fx.dalID].Quantity)
	require.Equal(t, enum.OrderStatusCancelled, fx.orders.orders[order.ID].Status)
}

func TestCancelOrderAlreadyCancelled(t *testing.T) {
	t.Parallel()

	fx := newOrderFixture(t)

	order, err := fx.svc.CreateOrder(fx.ctx, &CreateOrderInput{
		UserID:     fx.userID,
		RetailerID: fx.retailerID,
		Items:      []OrderItemInput{{ProductID: &fx.dalID, Qty: 5}},
	})
	require.NoError(t, err)

	require.NoError(t, fx.svc.CancelOrder(fx.ctx, fx.userID, order.ID))
	err = fx.svc.CancelOrder(fx.ctx, fx.userID, order.ID)
	require.Error(t, err)

	// stock must not be restored twice
	require.Equal(t, 50, fx.products.products[fx.dalID].Quantity)
}

func TestCancelOrderOwnedByAnotherUser(t *testing.T) {
	t.Parallel()

	fx := newOrderFixture(t)

	order, err := fx.svc.CreateOrder(fx.ctx, &CreateOrderInput{
		UserID:     fx.userID,
		RetailerID: fx.retailerID,
		Items:      []OrderItemInput{{ProductID: &fx.dalID, Qty: 5}},
	})
	require.NoError(t, err)

	err = fx.svc.CancelOrder(fx.ctx, uuid.New(), order.ID)
	require.Error(t, err)
	require.Equal(t, 45, fx.products.products[fx.dalID].Quantity)
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Parallel()

	fx := newOrderFixture(t)

	order, err := fx.svc.CreateOrder(fx.ctx, &CreateOrderInput{
		UserID:     fx.userID,
		RetailerID: fx.retailerID,
		Items:      []OrderItemInput{{ProductID: &fx.dalID, Qty: 5}},
	})
	require.NoError(t, err)

	// another user cannot touch the order
	err = fx.svc.UpdateOrderStatus(fx.ctx, uuid.New(), order.ID, enum.OrderStatusAccepted)
	require.Error(t, err)

	require.NoError(t, fx.svc.UpdateOrderStatus(fx.ctx, fx.userID, order.ID, enum.OrderStatusAccepted))
	require.Equal(t, enum.OrderStatusAccepted, fx.orders.orders[order.ID].Status)
}

func TestGetOrderNotFound(t *testing.T) {
	t.Parallel()

	fx := newOrderFixture(t)

	_, err := fx.svc.GetOrder(fx.ctx, uuid.New())
	require.Error(t, err)
}
