package application

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/go-marketplace-api/internal/domains/orders/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/orders/ports"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

// Assembler turns a validated request into a persisted, paid order in two phases:
// every item is checked before any stock moves, then stock is committed with
// conditional decrements. Any failure after the first decrement restores what was taken.
type Assembler struct {
	catalog      ports.ProductCatalog
	repo         ports.Repository
	guard        *InventoryGuard
	now          func() time.Time
	newID        func() string
	newPaymentID func() string
}

func NewAssembler(catalog ports.ProductCatalog, repo ports.Repository, now func() time.Time, newID, newPaymentID func() string) *Assembler {
	return &Assembler{
		catalog:      catalog,
		repo:         repo,
		guard:        NewInventoryGuard(catalog),
		now:          now,
		newID:        newID,
		newPaymentID: newPaymentID,
	}
}

// demand is the aggregated quantity per product, in first-seen order.
type demand struct {
	productID string
	quantity  int
}

// Assemble returns the persisted order and the events raised while building it.
func (a *Assembler) Assemble(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, []domain.Event, error) {
	if len(input.Items) == 0 {
		return nil, nil, failure.EmptyOrder()
	}
	demands, err := aggregate(input.Items)
	if err != nil {
		return nil, nil, err
	}

	reservations := make(map[string]Reservation, len(demands))
	for _, d := range demands {
		res, err := a.guard.Check(ctx, d.productID, d.quantity)
		if err != nil {
			return nil, nil, err
		}
		reservations[d.productID] = res
	}

	items := make([]domain.LineItem, 0, len(input.Items))
	for _, item := range input.Items {
		res := reservations[item.ProductID]
		items = append(items, domain.LineItem{
			ProductID: res.ProductID,
			Name:      res.Name,
			Quantity:  item.Quantity,
			Price:     res.Price,
			StoreID:   res.StoreID,
		})
	}
	createdAt := a.now().UTC()
	order, err := domain.NewOrder(a.newID(), input.UserID, items, input.ShippingAddress, createdAt)
	if err != nil {
		return nil, nil, mapError(err)
	}

	committed, err := a.commit(ctx, demands, reservations)
	if err != nil {
		return nil, nil, err
	}

	order.MarkPaid(a.newPaymentID(), createdAt)
	saved, err := a.repo.Create(ctx, order)
	if err != nil {
		a.restore(ctx, committed)
		return nil, nil, err
	}
	return saved, order.Events(), nil
}

// commit applies decrements in order; on the first failure the earlier ones are undone.
func (a *Assembler) commit(ctx context.Context, demands []demand, reservations map[string]Reservation) ([]demand, error) {
	committed := make([]demand, 0, len(demands))
	for _, d := range demands {
		if err := a.catalog.DecrementStock(ctx, d.productID, d.quantity); err != nil {
			a.restore(ctx, committed)
			return nil, a.commitFailure(ctx, d, reservations[d.productID], err)
		}
		committed = append(committed, d)
	}
	return committed, nil
}

// commitFailure re-reads stock so a lost race reports the quantity actually left.
func (a *Assembler) commitFailure(ctx context.Context, d demand, res Reservation, err error) error {
	switch {
	case errors.Is(err, ports.ErrInsufficientStock):
		available := 0
		if current, getErr := a.catalog.GetProduct(ctx, d.productID); getErr == nil {
			available = current.Stock
		}
		return failure.InsufficientStock(d.productID, res.Name, d.quantity, available)
	case errors.Is(err, ports.ErrProductNotFound):
		return failure.NotFound("product", d.productID)
	default:
		return err
	}
}

func (a *Assembler) restore(ctx context.Context, committed []demand) {
	ctx = context.WithoutCancel(ctx)
	for i := len(committed) - 1; i >= 0; i-- {
		_ = a.catalog.RestoreStock(ctx, committed[i].productID, committed[i].quantity)
	}
}

func aggregate(items []ports.ItemInput) ([]demand, error) {
	index := make(map[string]int, len(items))
	demands := make([]demand, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" {
			return nil, failure.Invalid(domain.ErrEmptyProduct)
		}
		if item.Quantity < 1 {
			return nil, failure.Invalid(domain.ErrInvalidQuantity)
		}
		if i, ok := index[item.ProductID]; ok {
			demands[i].quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(demands)
		demands = append(demands, demand{productID: item.ProductID, quantity: item.Quantity})
	}
	return demands, nil
}
