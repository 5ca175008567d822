package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/Apurer/go-marketplace-api/internal/domains/stores/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/stores/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory store persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	stores map[string]*domain.Store
}

func NewRepository() *Repository {
	return &Repository{stores: map[string]*domain.Store{}}
}

func (r *Repository) Save(_ context.Context, store *domain.Store) (*domain.Store, error) {
	if store == nil {
		return nil, errors.New("store is nil")
	}
	clone := *store
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	store, ok := r.stores[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *store
	return &clone, nil
}

func (r *Repository) GetByOwner(_ context.Context, ownerID string) (*domain.Store, error) {
	return r.find(func(s *domain.Store) bool { return s.OwnerID == ownerID })
}

func (r *Repository) GetByName(_ context.Context, name string) (*domain.Store, error) {
	name = strings.TrimSpace(name)
	return r.find(func(s *domain.Store) bool { return strings.EqualFold(s.Name, name) })
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*domain.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Store, 0, len(r.stores))
	for _, store := range r.stores {
		if filter.Status != nil && store.Status != *filter.Status {
			continue
		}
		clone := *store
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *Repository) find(match func(*domain.Store) bool) (*domain.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, store := range r.stores {
		if match(store) {
			clone := *store
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}
