package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductSnapshot is the live product state read at order time.
type ProductSnapshot struct {
	ID      string
	Name    string
	Price   decimal.Decimal
	Stock   int
	StoreID string
}

// ProductCatalog is the order context's view of catalog inventory.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID string) (ProductSnapshot, error)
	// DecrementStock fails with ErrInsufficientStock instead of going negative.
	DecrementStock(ctx context.Context, productID string, quantity int) error
	RestoreStock(ctx context.Context, productID string, quantity int) error
}
