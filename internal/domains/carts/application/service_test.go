package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartcatalog "github.com/Apurer/go-marketplace-api/internal/domains/carts/adapters/catalog"
	"github.com/Apurer/go-marketplace-api/internal/domains/carts/adapters/memory"
	"github.com/Apurer/go-marketplace-api/internal/domains/carts/domain"
	catalogmemory "github.com/Apurer/go-marketplace-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/go-marketplace-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

func newTestService(t *testing.T, productIDs ...string) (*Service, *catalogmemory.ProductRepository) {
	t.Helper()
	products := catalogmemory.NewProductRepository()
	for _, id := range productIDs {
		p, err := catalogdomain.NewProduct(id, "s1", "Item "+id, decimal.NewFromInt(10), 5)
		require.NoError(t, err)
		_, err = products.Save(context.Background(), p)
		require.NoError(t, err)
	}
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(memory.NewRepository(), cartcatalog.NewLookup(products), WithClock(func() time.Time { return fixed }))
	return svc, products
}

func TestSync_RepeatedPayloadDoublesQuantity(t *testing.T) {
	svc, _ := newTestService(t, "p1")
	ctx := context.Background()
	local := []domain.Item{{ProductID: "p1", Quantity: 1, StoreID: "s1"}}

	cart, err := svc.Sync(ctx, "u1", local)
	require.NoError(t, err)
	assert.Equal(t, []domain.Item{{ProductID: "p1", Quantity: 1, StoreID: "s1"}}, cart.Items)

	cart, err = svc.Sync(ctx, "u1", local)
	require.NoError(t, err)
	assert.Equal(t, []domain.Item{{ProductID: "p1", Quantity: 2, StoreID: "s1"}}, cart.Items)
}

func TestSync_SumsMatchingAndAppendsNew(t *testing.T) {
	svc, _ := newTestService(t, "p1", "p2")
	ctx := context.Background()

	_, err := svc.Replace(ctx, "u1", []domain.Item{{ProductID: "p1", Quantity: 2, StoreID: "s1"}})
	require.NoError(t, err)

	cart, err := svc.Sync(ctx, "u1", []domain.Item{
		{ProductID: "p1", Quantity: 3, StoreID: "s1"},
		{ProductID: "p2", Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.Item{
		{ProductID: "p1", Quantity: 5, StoreID: "s1"},
		{ProductID: "p2", Quantity: 1, StoreID: "s1"},
	}, cart.Items)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), cart.UpdatedAt)
}

func TestSync_UnknownProductLeavesCartUntouched(t *testing.T) {
	svc, _ := newTestService(t, "p1")
	ctx := context.Background()
	_, err := svc.Replace(ctx, "u1", []domain.Item{{ProductID: "p1", Quantity: 1, StoreID: "s1"}})
	require.NoError(t, err)

	_, err = svc.Sync(ctx, "u1", []domain.Item{{ProductID: "ghost", Quantity: 1}})
	require.ErrorIs(t, err, failure.ErrNotFound)

	cart, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Item{{ProductID: "p1", Quantity: 1, StoreID: "s1"}}, cart.Items)
}

func TestReplace_ValidatesQuantity(t *testing.T) {
	svc, _ := newTestService(t, "p1")

	_, err := svc.Replace(context.Background(), "u1", []domain.Item{{ProductID: "p1", Quantity: 0}})
	require.ErrorIs(t, err, failure.ErrInvalidInput)
}

func TestGetAndClear(t *testing.T) {
	svc, _ := newTestService(t, "p1")
	ctx := context.Background()

	empty, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, empty.Items)

	_, err = svc.Replace(ctx, "u1", []domain.Item{{ProductID: "p1", Quantity: 4}})
	require.NoError(t, err)

	cleared, err := svc.Clear(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cleared.Items)
}
