package catalog

import (
	"context"
	"errors"

	cartports "github.com/Apurer/go-marketplace-api/internal/domains/carts/ports"
	catalogports "github.com/Apurer/go-marketplace-api/internal/domains/catalog/ports"
)

var _ cartports.ProductLookup = (*Lookup)(nil)

// Lookup answers cart product checks from the catalog repository.
type Lookup struct {
	products catalogports.ProductRepository
}

func NewLookup(products catalogports.ProductRepository) *Lookup {
	return &Lookup{products: products}
}

func (l *Lookup) StoreOf(ctx context.Context, productID string) (string, error) {
	product, err := l.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogports.ErrProductNotFound) {
			return "", cartports.ErrProductNotFound
		}
		return "", err
	}
	return product.StoreID, nil
}
