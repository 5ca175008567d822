package application

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/go-marketplace-api/internal/domains/orders/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/orders/ports"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

// Tracker applies status changes with a version-checked write.
type Tracker struct {
	repo ports.Repository
	now  func() time.Time
}

func NewTracker(repo ports.Repository, now func() time.Time) *Tracker {
	return &Tracker{repo: repo, now: now}
}

// Update returns the stored order and the events raised by the change.
func (t *Tracker) Update(ctx context.Context, input ports.UpdateStatusInput) (*domain.Order, []domain.Event, error) {
	order, err := t.repo.GetByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, nil, failure.NotFound("order", input.OrderID)
		}
		return nil, nil, err
	}
	expected := order.Version
	if err := order.ChangeStatus(input.Status, input.ActorID, t.now().UTC()); err != nil {
		return nil, nil, mapError(err)
	}
	saved, err := t.repo.UpdateStatus(ctx, order, expected)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrVersionConflict):
			return nil, nil, failure.Conflict("order was modified concurrently, retry the update")
		case errors.Is(err, ports.ErrNotFound):
			return nil, nil, failure.NotFound("order", input.OrderID)
		}
		return nil, nil, err
	}
	return saved, order.Events(), nil
}
