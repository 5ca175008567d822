package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/go-marketplace-api/internal/domains/carts/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/carts/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps carts in memory keyed by owning user.
type Repository struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

func NewRepository() *Repository {
	return &Repository{carts: map[string]*domain.Cart{}}
}

func (r *Repository) GetByUser(_ context.Context, userID string) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cart, ok := r.carts[userID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cart.Clone(), nil
}

func (r *Repository) Save(_ context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if cart == nil {
		return nil, errors.New("cart is nil")
	}
	clone := cart.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[clone.UserID] = clone
	return clone.Clone(), nil
}

func (r *Repository) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[userID]; !ok {
		return ports.ErrNotFound
	}
	delete(r.carts, userID)
	return nil
}
