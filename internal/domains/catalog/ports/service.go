package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-marketplace-api/internal/domains/catalog/domain"
)

// CreateProductInput carries the fields required to list a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	CategoryID  string
	ImageURLs   []string
}

// UpdateProductInput carries optional product field updates.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	CategoryID  *string
	ImageURLs   *[]string
}

// CategoryInput carries category fields.
type CategoryInput struct {
	Name        string
	Description string
}

// Service exposes catalog use cases to adapters.
type Service interface {
	CreateProduct(ctx context.Context, actorID string, input CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, actorID, productID string, input UpdateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actorID, productID string) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)

	CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, input CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}
