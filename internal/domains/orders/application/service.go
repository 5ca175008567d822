package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-marketplace-api/internal/domains/orders/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/orders/ports"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

// Service wires the order assembler and status tracker with idempotency and event publishing.
type Service struct {
	repo           ports.Repository
	catalog        ports.ProductCatalog
	idempotency    ports.IdempotencyStore
	publisher      ports.EventPublisher
	onPublishError func(context.Context, error)
	now            func() time.Time
	newID          func() string
	newPaymentID   func() string
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

// WithIDGenerator overrides order and payment identifier generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
			s.newPaymentID = newID
		}
	}
}

// WithIdempotencyStore enables replay of requests carrying an idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) { s.idempotency = store }
}

// WithEventPublisher publishes order events after they are persisted.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

// WithPublishErrorHandler receives publish failures; the order itself is already stored.
func WithPublishErrorHandler(fn func(context.Context, error)) Option {
	return func(s *Service) { s.onPublishError = fn }
}

func NewService(repo ports.Repository, catalog ports.ProductCatalog, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		catalog:      catalog,
		now:          time.Now,
		newID:        uuid.NewString,
		newPaymentID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder assembles and stores a paid order, replaying a prior result for a reused idempotency key.
func (s *Service) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	var requestHash string
	if key != "" && s.idempotency != nil {
		key = IdempotencyStoreKey(input.UserID, key)
		hash, err := FingerprintPlaceOrder(input)
		if err != nil {
			return nil, err
		}
		requestHash = hash
		existing, err := s.idempotency.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.RequestHash != requestHash {
				return nil, mapError(ports.ErrIdempotencyConflict)
			}
			return s.GetOrder(ctx, existing.OrderID)
		}
	}

	assembler := NewAssembler(s.catalog, s.repo, s.now, s.newID, s.newPaymentID)
	order, events, err := assembler.Assemble(ctx, input)
	if err != nil {
		return nil, err
	}

	if requestHash != "" {
		if _, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: requestHash, OrderID: order.ID}); err != nil {
			return nil, mapError(err)
		}
	}
	s.publish(ctx, events)
	return order, nil
}

// UpdateStatus is the order status tracker entry point. Callers authorize beforehand.
func (s *Service) UpdateStatus(ctx context.Context, input ports.UpdateStatusInput) (*domain.Order, error) {
	order, events, err := NewTracker(s.repo, s.now).Update(ctx, input)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events)
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, failure.NotFound("order", id)
		}
		return nil, err
	}
	return order, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListForStore(ctx context.Context, storeID string) ([]*domain.Order, error) {
	return s.repo.ListByStore(ctx, storeID)
}

func (s *Service) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) publish(ctx context.Context, events []domain.Event) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil && s.onPublishError != nil {
		s.onPublishError(ctx, err)
	}
}

var _ ports.Service = (*Service)(nil)
