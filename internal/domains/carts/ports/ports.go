package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-marketplace-api/internal/domains/carts/domain"
)

var (
	ErrNotFound        = errors.New("cart not found")
	ErrProductNotFound = errors.New("product not found")
)

// Repository persists one cart per user.
type Repository interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) (*domain.Cart, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// ProductLookup resolves the store that owns a live product.
type ProductLookup interface {
	StoreOf(ctx context.Context, productID string) (string, error)
}

// Service exposes cart use cases.
type Service interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Replace(ctx context.Context, userID string, items []domain.Item) (*domain.Cart, error)
	Sync(ctx context.Context, userID string, items []domain.Item) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) (*domain.Cart, error)
}
