package ports

import (
	"context"

	"github.com/Apurer/go-marketplace-api/internal/domains/orders/domain"
)

// ItemInput is one requested (product, quantity) pair.
type ItemInput struct {
	ProductID string
	Quantity  int
}

// PlaceOrderInput carries everything needed to assemble an order.
type PlaceOrderInput struct {
	UserID          string
	Items           []ItemInput
	ShippingAddress domain.ShippingAddress
	// IdempotencyKey is optional; a repeated key with the same payload replays the stored order.
	IdempotencyKey string
}

// UpdateStatusInput carries a tracked status change.
type UpdateStatusInput struct {
	OrderID string
	Status  domain.Status
	ActorID string
}

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.Order, error)
	ListForStore(ctx context.Context, storeID string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
}

// EventPublisher ships domain events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

// WorkflowOrchestrator runs order placement, durably when a workflow engine is configured.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
}
