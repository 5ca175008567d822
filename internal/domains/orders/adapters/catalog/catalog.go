package catalog

import (
	"context"
	"errors"

	catalogports "github.com/Apurer/go-marketplace-api/internal/domains/catalog/ports"
	orderports "github.com/Apurer/go-marketplace-api/internal/domains/orders/ports"
)

var _ orderports.ProductCatalog = (*Catalog)(nil)

// Catalog exposes catalog products and their stock to order placement.
type Catalog struct {
	products catalogports.ProductRepository
}

func New(products catalogports.ProductRepository) *Catalog {
	return &Catalog{products: products}
}

func (c *Catalog) GetProduct(ctx context.Context, productID string) (orderports.ProductSnapshot, error) {
	product, err := c.products.GetByID(ctx, productID)
	if err != nil {
		return orderports.ProductSnapshot{}, translate(err)
	}
	return orderports.ProductSnapshot{
		ID:      product.ID,
		Name:    product.Name,
		Price:   product.Price,
		Stock:   product.Stock,
		StoreID: product.StoreID,
	}, nil
}

func (c *Catalog) DecrementStock(ctx context.Context, productID string, quantity int) error {
	_, err := c.products.DecrementStock(ctx, productID, quantity)
	return translate(err)
}

func (c *Catalog) RestoreStock(ctx context.Context, productID string, quantity int) error {
	return translate(c.products.RestoreStock(ctx, productID, quantity))
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalogports.ErrProductNotFound):
		return orderports.ErrProductNotFound
	case errors.Is(err, catalogports.ErrInsufficientStock):
		return orderports.ErrInsufficientStock
	default:
		return err
	}
}
