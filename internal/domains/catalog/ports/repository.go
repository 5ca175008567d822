package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-marketplace-api/internal/domains/catalog/domain"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	// ErrInsufficientStock is returned by DecrementStock when the conditional write matched no row.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductFilter narrows product listings; empty fields match everything.
type ProductFilter struct {
	StoreID    string
	CategoryID string
}

// ProductRepository persists products.
type ProductRepository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	// UpdateDetails writes an existing product but keeps its stored stock.
	UpdateDetails(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	// DecrementStock subtracts quantity only if stock >= quantity, atomically.
	DecrementStock(ctx context.Context, id string, quantity int) (*domain.Product, error)
	// RestoreStock adds quantity back after a decrement that must be undone.
	RestoreStock(ctx context.Context, id string, quantity int) error
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	Save(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

// StoreAccess is the catalog's view of the store ownership rules.
type StoreAccess interface {
	// AuthorizeListing returns the caller's store id when it may list products.
	AuthorizeListing(ctx context.Context, userID string) (string, error)
	// AuthorizeProduct fails unless userID owns storeID.
	AuthorizeProduct(ctx context.Context, userID, productID, storeID string) error
}
