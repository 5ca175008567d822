package ports

import (
	"context"

	"github.com/Apurer/go-marketplace-api/internal/domains/stores/domain"
)

// CreateStoreInput carries the fields a seller supplies when opening a store.
type CreateStoreInput struct {
	Name        string
	Description string
}

// UpdateStoreInput carries optional store field updates.
type UpdateStoreInput struct {
	Name        *string
	Description *string
}

// Service exposes store use cases to adapters.
type Service interface {
	CreateStore(ctx context.Context, ownerID string, input CreateStoreInput) (*domain.Store, error)
	GetMine(ctx context.Context, ownerID string) (*domain.Store, error)
	GetByID(ctx context.Context, id string) (*domain.Store, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Store, error)
	UpdateStore(ctx context.Context, actorID, storeID string, input UpdateStoreInput) (*domain.Store, error)
	Approve(ctx context.Context, storeID string) (*domain.Store, error)
	Reject(ctx context.Context, storeID string) (*domain.Store, error)
}

// OwnershipGuard authorizes mutations of store-scoped resources.
type OwnershipGuard interface {
	// OwnedStore resolves the store owned by userID.
	OwnedStore(ctx context.Context, userID string) (*domain.Store, error)
	// AuthorizeStore succeeds only when userID owns storeID.
	AuthorizeStore(ctx context.Context, userID, storeID string) (*domain.Store, error)
	// AuthorizeProduct succeeds only when userID owns the store the product belongs to.
	AuthorizeProduct(ctx context.Context, userID, productID, productStoreID string) (*domain.Store, error)
	// AuthorizeListing succeeds only when userID owns an approved store.
	AuthorizeListing(ctx context.Context, userID string) (*domain.Store, error)
}
