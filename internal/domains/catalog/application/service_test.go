package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-marketplace-api/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/go-marketplace-api/internal/domains/catalog/adapters/storeaccess"
	"github.com/Apurer/go-marketplace-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/catalog/ports"
	storememory "github.com/Apurer/go-marketplace-api/internal/domains/stores/adapters/memory"
	storeapp "github.com/Apurer/go-marketplace-api/internal/domains/stores/application"
	storeports "github.com/Apurer/go-marketplace-api/internal/domains/stores/ports"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

type fixture struct {
	svc      *Service
	stores   *storeapp.Service
	products *memory.ProductRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	storeRepo := storememory.NewRepository()
	guard := storeapp.NewGuard(storeRepo)
	seq := 0
	stores := storeapp.NewService(storeRepo, guard, storeapp.WithIDGenerator(func() string {
		seq++
		return "store-" + string(rune('0'+seq))
	}))
	products := memory.NewProductRepository()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := NewService(products, memory.NewCategoryRepository(), storeaccess.New(guard), WithClock(func() time.Time { return fixed }))
	return fixture{svc: svc, stores: stores, products: products}
}

func (f fixture) openStore(t *testing.T, ownerID string, approve bool) string {
	t.Helper()
	ctx := context.Background()
	store, err := f.stores.CreateStore(ctx, ownerID, storeports.CreateStoreInput{Name: "Shop of " + ownerID})
	require.NoError(t, err)
	if approve {
		_, err = f.stores.Approve(ctx, store.ID)
		require.NoError(t, err)
	}
	return store.ID
}

func lampInput() ports.CreateProductInput {
	return ports.CreateProductInput{Name: "Lamp", Price: decimal.NewFromInt(100), Stock: 50}
}

func TestCreateProduct_UserWithoutStore(t *testing.T) {
	f := newFixture(t)
	f.openStore(t, "userA", true)

	_, err := f.svc.CreateProduct(context.Background(), "userB", lampInput())
	require.ErrorIs(t, err, failure.ErrNoStore)
}

func TestCreateProduct_RequiresApprovedStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	storeID := f.openStore(t, "userU", false)

	_, err := f.svc.CreateProduct(ctx, "userU", lampInput())
	require.ErrorIs(t, err, failure.ErrStoreNotApproved)

	_, err = f.stores.Approve(ctx, storeID)
	require.NoError(t, err)

	product, err := f.svc.CreateProduct(ctx, "userU", lampInput())
	require.NoError(t, err)
	require.Equal(t, storeID, product.StoreID)
	require.Equal(t, 50, product.Stock)
}

func TestUpdateAndDeleteProduct_OwnershipEnforced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.openStore(t, "owner", true)
	f.openStore(t, "rival", true)

	product, err := f.svc.CreateProduct(ctx, "owner", lampInput())
	require.NoError(t, err)

	price := decimal.NewFromInt(1)
	_, err = f.svc.UpdateProduct(ctx, "rival", product.ID, ports.UpdateProductInput{Price: &price})
	require.ErrorIs(t, err, failure.ErrNotAuthorized)

	err = f.svc.DeleteProduct(ctx, "rival", product.ID)
	require.ErrorIs(t, err, failure.ErrNotAuthorized)

	_, err = f.svc.UpdateProduct(ctx, "nobody", product.ID, ports.UpdateProductInput{Price: &price})
	require.ErrorIs(t, err, failure.ErrNoStore)

	stored, err := f.svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.True(t, stored.Price.Equal(decimal.NewFromInt(100)))

	updated, err := f.svc.UpdateProduct(ctx, "owner", product.ID, ports.UpdateProductInput{Price: &price})
	require.NoError(t, err)
	require.True(t, updated.Price.Equal(price))

	require.NoError(t, f.svc.DeleteProduct(ctx, "owner", product.ID))
	_, err = f.svc.GetProduct(ctx, product.ID)
	require.ErrorIs(t, err, failure.ErrNotFound)
}

// checkoutAfterRead lets a sale land between the service reading a product and writing it back.
type checkoutAfterRead struct {
	*memory.ProductRepository
	sold int
}

func (r *checkoutAfterRead) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := r.ProductRepository.GetByID(ctx, id)
	if err != nil || r.sold == 0 {
		return product, err
	}
	_, err = r.ProductRepository.DecrementStock(ctx, id, r.sold)
	r.sold = 0
	return product, err
}

func TestUpdateProduct_DetailEditKeepsConcurrentStockChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.openStore(t, "owner", true)
	product, err := f.svc.CreateProduct(ctx, "owner", lampInput())
	require.NoError(t, err)

	racing := &checkoutAfterRead{ProductRepository: f.products, sold: 3}
	svc := NewService(racing, memory.NewCategoryRepository(), f.svc.access)

	name := "Desk lamp"
	updated, err := svc.UpdateProduct(ctx, "owner", product.ID, ports.UpdateProductInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Desk lamp", updated.Name)
	require.Equal(t, 47, updated.Stock)

	stock := 10
	updated, err = svc.UpdateProduct(ctx, "owner", product.ID, ports.UpdateProductInput{Stock: &stock})
	require.NoError(t, err)
	require.Equal(t, 10, updated.Stock)
}

func TestCreateProduct_ValidatesFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.openStore(t, "owner", true)

	input := lampInput()
	input.Price = decimal.NewFromInt(-5)
	_, err := f.svc.CreateProduct(ctx, "owner", input)
	require.ErrorIs(t, err, failure.ErrInvalidInput)

	input = lampInput()
	input.Stock = -1
	_, err = f.svc.CreateProduct(ctx, "owner", input)
	require.ErrorIs(t, err, failure.ErrInvalidInput)

	input = lampInput()
	input.CategoryID = "missing"
	_, err = f.svc.CreateProduct(ctx, "owner", input)
	require.ErrorIs(t, err, failure.ErrNotFound)
}

func TestCategoriesAndFiltering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.openStore(t, "owner", true)

	category, err := f.svc.CreateCategory(ctx, ports.CategoryInput{Name: "Lighting"})
	require.NoError(t, err)

	input := lampInput()
	input.CategoryID = category.ID
	_, err = f.svc.CreateProduct(ctx, "owner", input)
	require.NoError(t, err)
	_, err = f.svc.CreateProduct(ctx, "owner", ports.CreateProductInput{Name: "Chair", Price: decimal.NewFromInt(30), Stock: 2})
	require.NoError(t, err)

	lit, err := f.svc.ListProducts(ctx, ports.ProductFilter{CategoryID: category.ID})
	require.NoError(t, err)
	require.Len(t, lit, 1)
	require.Equal(t, "Lamp", lit[0].Name)

	renamed, err := f.svc.UpdateCategory(ctx, category.ID, ports.CategoryInput{Name: "Lights"})
	require.NoError(t, err)
	require.Equal(t, "Lights", renamed.Name)

	require.NoError(t, f.svc.DeleteCategory(ctx, category.ID))
	require.ErrorIs(t, f.svc.DeleteCategory(ctx, category.ID), failure.ErrNotFound)
}
