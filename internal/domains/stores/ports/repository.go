package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-marketplace-api/internal/domains/stores/domain"
)

var ErrNotFound = errors.New("store not found")

// ListFilter narrows store listings. A nil status lists every store.
type ListFilter struct {
	Status *domain.Status
}

// Repository persists stores.
type Repository interface {
	Save(ctx context.Context, store *domain.Store) (*domain.Store, error)
	GetByID(ctx context.Context, id string) (*domain.Store, error)
	GetByOwner(ctx context.Context, ownerID string) (*domain.Store, error)
	GetByName(ctx context.Context, name string) (*domain.Store, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Store, error)
}
