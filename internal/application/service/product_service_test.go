package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/domain/entity"
	"github.com/stockpilot/stockpilot-api/internal/domain/repository"
	infraRepo "github.com/stockpilot/stockpilot-api/internal/infrastructure/repository"
	"github.com/stretchr/testify/require"
)

type fakeCatalogRepo struct {
	repository.ProductRepository
	bySKU   map[string]*entity.Product
	batches [][]entity.Product
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{bySKU: make(map[string]*entity.Product)}
}

func (f *fakeCatalogRepo) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	f.bySKU[product.SKU] = product
	return nil
}

func (f *fakeCatalogRepo) CreateBatch(ctx context.Context, products []entity.Product) error {
	f.batches = append(f.batches, products)
	for i := range products {
		p := products[i]
		f.bySKU[p.SKU] = &p
	}
	return nil
}

func (f *fakeCatalogRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	for _, p := range f.bySKU {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return f.bySKU[sku], nil
}

func (f *fakeCatalogRepo) Update(ctx context.Context, product *entity.Product) error {
	f.bySKU[product.SKU] = product
	return nil
}

func (f *fakeCatalogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for sku, p := range f.bySKU {
		if p.ID == id {
			delete(f.bySKU, sku)
		}
	}
	return nil
}

func TestCreateProductGeneratesSKU(t *testing.T) {
	t.Parallel()

	repo := newFakeCatalogRepo()
	svc := NewProductService(repo)
	ctx := infraRepo.WithTenant(context.Background(), uuid.New())

	product, err := svc.CreateProduct(ctx, &CreateProductInput{
		UserID:       uuid.New(),
		Name:         "Basmati Rice 5kg",
		SellingPrice: 520,
		Quantity:     20,
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(product.SKU, "SKU-"))
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	t.Parallel()

	repo := newFakeCatalogRepo()
	svc := NewProductService(repo)
	ctx := infraRepo.WithTenant(context.Background(), uuid.New())

	_, err := svc.CreateProduct(ctx, &CreateProductInput{
		UserID: uuid.New(), Name: "Sugar 1kg", SKU: "SUG-1KG",
	})
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, &CreateProductInput{
		UserID: uuid.New(), Name: "Sugar 1kg refill", SKU: "SUG-1KG",
	})
	require.Error(t, err)
}

func TestUpdateProductOwnedByAnotherUser(t *testing.T) {
	t.Parallel()

	repo := newFakeCatalogRepo()
	svc := NewProductService(repo)
	ctx := infraRepo.WithTenant(context.Background(), uuid.New())
	owner := uuid.New()

	product, err := svc.CreateProduct(ctx, &CreateProductInput{
		UserID: owner, Name: "Sugar 1kg", SKU: "SUG-1KG",
	})
	require.NoError(t, err)

	name := "Sugar 1kg premium"
	_, err = svc.UpdateProduct(ctx, &UpdateProductInput{
		UserID: uuid.New(), ID: product.ID, Name: &name,
	})
	require.Error(t, err)

	// super-admin bypasses the ownership check
	got, err := svc.UpdateProduct(ctx, &UpdateProductInput{
		UserID: uuid.New(), ID: product.ID, SkipUserCheck: true, Name: &name,
	})
	require.NoError(t, err)
	require.Equal(t, "Sugar 1kg premium", got.Name)
}

func TestDeleteProductOwnerCheck(t *testing.T) {
	t.Parallel()

	repo := newFakeCatalogRepo()
	svc := NewProductService(repo)
	ctx := infraRepo.WithTenant(context.Background(), uuid.New())
	owner := uuid.New()

	product, err := svc.CreateProduct(ctx, &CreateProductInput{
		UserID: owner, Name: "Sugar 1kg", SKU: "SUG-1KG",
	})
	require.NoError(t, err)

	require.Error(t, svc.DeleteProduct(ctx, uuid.New(), product.ID, false))
	require.NoError(t, svc.DeleteProduct(ctx, owner, product.ID, false))
}

func TestImportProducts(t *testing.T) {
	t.Parallel()

	repo := newFakeCatalogRepo()
	svc := NewProductService(repo)
	ctx := infraRepo.WithTenant(context.Background(), uuid.New())
	userID := uuid.New()

	// an SKU already taken in the catalog
	_, err := svc.CreateProduct(ctx, &CreateProductInput{
		UserID: userID, Name: "Toor Dal 1kg", SKU: "DAL-TOOR-1KG",
	})
	require.NoError(t, err)

	res, err := svc.ImportProducts(ctx, userID, []ImportProductRow{
		{Name: "Basmati Rice 5kg", SKU: "RICE-BAS-5KG", SellingPrice: 520, Quantity: 20},
		{Name: "", SKU: "NO-NAME"},
		{Name: "Chana Dal 1kg", SKU: "DAL-CHANA-1KG", SellingPrice: 110},
		{Name: "Chana Dal 1kg again", SKU: "DAL-CHANA-1KG"},
		{Name: "Toor Dal 1kg", SKU: "DAL-TOOR-1KG"},
	})
	require.NoError(t, err)

	require.Equal(t, 5, res.TotalRows)
	require.Equal(t, 2, res.Successful)
	require.Equal(t, 3, res.Failed)

	// data rows start at spreadsheet row 2
	require.Equal(t, 3, res.Errors[0].Row)
	require.Equal(t, "name", res.Errors[0].Field)
	require.Equal(t, 5, res.Errors[1].Row)
	require.Contains(t, res.Errors[1].Message, "same as row 4")
	require.Equal(t, 6, res.Errors[2].Row)
	require.Contains(t, res.Errors[2].Message, "already exists")

	require.Len(t, repo.batches, 1)
	require.Len(t, repo.batches[0], 2)
}

func TestImportProductsGeneratesMissingSKUs(t *testing.T) {
	t.Parallel()

	repo := newFakeCatalogRepo()
	svc := NewProductService(repo)
	ctx := infraRepo.WithTenant(context.Background(), uuid.New())

	res, err := svc.ImportProducts(ctx, uuid.New(), []ImportProductRow{
		{Name: "Jaggery 500g", SellingPrice: 60},
		{Name: "Jaggery 1kg", SellingPrice: 110},
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.Successful)
	require.Zero(t, res.Failed)

	for _, p := range repo.batches[0] {
		require.True(t, strings.HasPrefix(p.SKU, "SKU-"))
	}
}

func TestImportProductsRequiresTenant(t *testing.T) {
	t.Parallel()

	svc := NewProductService(newFakeCatalogRepo())

	_, err := svc.ImportProducts(context.Background(), uuid.New(), []ImportProductRow{
		{Name: "Sugar 1kg"},
	})
	require.Error(t, err)
}
