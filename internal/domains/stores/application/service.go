package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-marketplace-api/internal/domains/stores/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/stores/ports"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

// Service orchestrates store onboarding and approval.
type Service struct {
	repo  ports.Repository
	guard ports.OwnershipGuard
	now   func() time.Time
	newID func() string
}

// Option customizes the service.
type Option func(*Service)

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides store identifier generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(repo ports.Repository, guard ports.OwnershipGuard, opts ...Option) *Service {
	if guard == nil {
		guard = NewGuard(repo)
	}
	s := &Service{repo: repo, guard: guard, now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateStore opens a pending store for ownerID. One store per owner; names are unique.
func (s *Service) CreateStore(ctx context.Context, ownerID string, input ports.CreateStoreInput) (*domain.Store, error) {
	if _, err := s.repo.GetByOwner(ctx, ownerID); err == nil {
		return nil, failure.DuplicateStore(ownerID)
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	store, err := domain.NewStore(s.newID(), ownerID, input.Name, input.Description)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.ensureNameAvailable(ctx, store.Name, ""); err != nil {
		return nil, err
	}
	store.CreatedAt = s.now().UTC()
	return s.repo.Save(ctx, store)
}

// GetMine returns the caller's store or NoStore.
func (s *Service) GetMine(ctx context.Context, ownerID string) (*domain.Store, error) {
	return s.guard.OwnedStore(ctx, ownerID)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	store, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, failure.NotFound("store", id)
		}
		return nil, err
	}
	return store, nil
}

func (s *Service) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Store, error) {
	if filter.Status != nil && !domain.IsValidStatus(*filter.Status) {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	return s.repo.List(ctx, filter)
}

// UpdateStore edits name/description of the caller's own store.
func (s *Service) UpdateStore(ctx context.Context, actorID, storeID string, input ports.UpdateStoreInput) (*domain.Store, error) {
	store, err := s.guard.AuthorizeStore(ctx, actorID, storeID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := store.Rename(*input.Name); err != nil {
			return nil, mapError(err)
		}
		if err := s.ensureNameAvailable(ctx, store.Name, store.ID); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		store.Describe(*input.Description)
	}
	return s.repo.Save(ctx, store)
}

// Approve is an administrative action: PENDING -> APPROVED.
func (s *Service) Approve(ctx context.Context, storeID string) (*domain.Store, error) {
	return s.transition(ctx, storeID, (*domain.Store).Approve)
}

// Reject is an administrative action: PENDING -> REJECTED.
func (s *Service) Reject(ctx context.Context, storeID string) (*domain.Store, error) {
	return s.transition(ctx, storeID, (*domain.Store).Reject)
}

func (s *Service) transition(ctx context.Context, storeID string, apply func(*domain.Store) error) (*domain.Store, error) {
	store, err := s.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if err := apply(store); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, store)
}

func (s *Service) ensureNameAvailable(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return failure.Conflict("store name is already taken")
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
