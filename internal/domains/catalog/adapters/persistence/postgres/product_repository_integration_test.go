//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-marketplace-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-marketplace-api/internal/platform/postgres/pgtest"
)

func seedProduct(t *testing.T, repo *ProductRepository, id string, stock int) {
	t.Helper()
	product, err := domain.NewProduct(id, "s-1", "Lamp "+id, decimal.RequireFromString("19.99"), stock)
	require.NoError(t, err)
	require.NoError(t, product.ReplaceImages([]string{"https://img.example/" + id + ".png"}))
	product.CreatedAt = time.Now().UTC()
	_, err = repo.Save(context.Background(), product)
	require.NoError(t, err)
}

func TestProductRepository_RoundTrip(t *testing.T) {
	db := pgtest.Start(t)
	repo := NewProductRepository(db)
	categories := NewCategoryRepository(db)
	ctx := context.Background()

	category, err := domain.NewCategory("c-1", "Lighting", "")
	require.NoError(t, err)
	_, err = categories.Save(ctx, category)
	require.NoError(t, err)

	seedProduct(t, repo, "p-1", 10)
	stored, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.True(t, stored.Price.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, []string{"https://img.example/p-1.png"}, stored.ImageURLs)

	stored.Categorize("c-1")
	_, err = repo.Save(ctx, stored)
	require.NoError(t, err)

	list, err := repo.List(ctx, ports.ProductFilter{CategoryID: "c-1"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, categories.Delete(ctx, "c-1"))
	detached, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Empty(t, detached.CategoryID)

	require.NoError(t, repo.Delete(ctx, "p-1"))
	_, err = repo.GetByID(ctx, "p-1")
	assert.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestProductRepository_UpdateDetailsKeepsStock(t *testing.T) {
	db := pgtest.Start(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	seedProduct(t, repo, "p-1", 10)
	stale, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	_, err = repo.DecrementStock(ctx, "p-1", 4)
	require.NoError(t, err)

	require.NoError(t, stale.Rename("Desk lamp"))
	updated, err := repo.UpdateDetails(ctx, stale)
	require.NoError(t, err)
	assert.Equal(t, "Desk lamp", updated.Name)
	assert.Equal(t, 6, updated.Stock)

	stale.ID = "missing"
	_, err = repo.UpdateDetails(ctx, stale)
	require.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestProductRepository_ConditionalDecrement(t *testing.T) {
	db := pgtest.Start(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	seedProduct(t, repo, "p-1", 5)

	_, err := repo.DecrementStock(ctx, "p-1", 6)
	require.ErrorIs(t, err, ports.ErrInsufficientStock)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.DecrementStock(ctx, "p-1", 1)
		}()
	}
	wg.Wait()

	stored, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Stock)

	require.NoError(t, repo.RestoreStock(ctx, "p-1", 2))
	stored, err = repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Stock)

	_, err = repo.DecrementStock(ctx, "missing", 1)
	assert.ErrorIs(t, err, ports.ErrProductNotFound)
}
