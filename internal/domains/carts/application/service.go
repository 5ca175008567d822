package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-marketplace-api/internal/domains/carts/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/carts/ports"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

// Service holds the cart merge engine and plain cart persistence.
type Service struct {
	repo     ports.Repository
	products ports.ProductLookup
	now      func() time.Time
	newID    func() string
}

type Option func(*Service)

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(repo ports.Repository, products ports.ProductLookup, opts ...Option) *Service {
	s := &Service{repo: repo, products: products, now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Get returns the persisted cart, or an unsaved empty one.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.load(ctx, userID)
}

// Replace overwrites the cart item list.
func (s *Service) Replace(ctx context.Context, userID string, items []domain.Item) (*domain.Cart, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.Replace(items); err != nil {
		return nil, mapError(err)
	}
	return s.persist(ctx, cart)
}

// Sync merges a client-side cart into the persisted one, summing quantities per product.
func (s *Service) Sync(ctx context.Context, userID string, items []domain.Item) (*domain.Cart, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.Merge(items); err != nil {
		return nil, mapError(err)
	}
	return s.persist(ctx, cart)
}

func (s *Service) Clear(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Clear()
	cart.UpdatedAt = s.now().UTC()
	return s.repo.Save(ctx, cart)
}

func (s *Service) load(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	cart, err = domain.NewCart(s.newID(), userID)
	if err != nil {
		return nil, mapError(err)
	}
	return cart, nil
}

// persist verifies every referenced product still exists, fills missing store
// references, then writes the cart in one call.
func (s *Service) persist(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	stores := make(map[string]string, len(cart.Items))
	for _, productID := range cart.ProductIDs() {
		storeID, err := s.products.StoreOf(ctx, productID)
		if err != nil {
			if errors.Is(err, ports.ErrProductNotFound) {
				return nil, failure.NotFound("product", productID)
			}
			return nil, err
		}
		stores[productID] = storeID
	}
	for i := range cart.Items {
		if cart.Items[i].StoreID == "" {
			cart.Items[i].StoreID = stores[cart.Items[i].ProductID]
		}
	}
	cart.UpdatedAt = s.now().UTC()
	return s.repo.Save(ctx, cart)
}

func mapError(err error) error {
	if errors.Is(err, domain.ErrEmptyUser) ||
		errors.Is(err, domain.ErrEmptyProduct) ||
		errors.Is(err, domain.ErrInvalidQuantity) {
		return failure.Invalid(err)
	}
	return err
}

var _ ports.Service = (*Service)(nil)
