package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-marketplace-api/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrVersionConflict is returned when the stored version moved since the order was read.
	ErrVersionConflict = errors.New("order version conflict")
)

// Repository persists orders.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// UpdateStatus writes status and history only if the stored version equals expectedVersion.
	UpdateStatus(ctx context.Context, order *domain.Order, expectedVersion int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	ListByStore(ctx context.Context, storeID string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
}
