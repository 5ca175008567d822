package application

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-marketplace-api/internal/domains/orders/ports"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

// Reservation is what the inventory guard hands back for a satisfiable request.
type Reservation struct {
	ProductID      string
	Name           string
	Price          decimal.Decimal
	StoreID        string
	Quantity       int
	RemainingStock int
}

// InventoryGuard checks a single (product, quantity) request against live stock. It never writes.
type InventoryGuard struct {
	catalog ports.ProductCatalog
}

func NewInventoryGuard(catalog ports.ProductCatalog) *InventoryGuard {
	return &InventoryGuard{catalog: catalog}
}

// Check fails with NotFound for an unknown product and InsufficientStock when stock < quantity.
func (g *InventoryGuard) Check(ctx context.Context, productID string, quantity int) (Reservation, error) {
	if quantity < 1 {
		return Reservation{}, failure.New(failure.KindInvalidInput, "quantity must be at least 1")
	}
	product, err := g.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, ports.ErrProductNotFound) {
			return Reservation{}, failure.NotFound("product", productID)
		}
		return Reservation{}, err
	}
	if product.Stock < quantity {
		return Reservation{}, failure.InsufficientStock(product.ID, product.Name, quantity, product.Stock)
	}
	return Reservation{
		ProductID:      product.ID,
		Name:           product.Name,
		Price:          product.Price,
		StoreID:        product.StoreID,
		Quantity:       quantity,
		RemainingStock: product.Stock - quantity,
	}, nil
}
