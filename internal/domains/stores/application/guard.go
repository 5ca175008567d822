package application

import (
	"context"
	"errors"

	"github.com/Apurer/go-marketplace-api/internal/domains/stores/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/stores/ports"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

// Guard resolves the caller's store and checks it against the target resource.
type Guard struct {
	repo ports.Repository
}

func NewGuard(repo ports.Repository) *Guard {
	return &Guard{repo: repo}
}

// OwnedStore fails with NoStore when userID owns no store.
func (g *Guard) OwnedStore(ctx context.Context, userID string) (*domain.Store, error) {
	store, err := g.repo.GetByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, failure.NoStore(userID)
		}
		return nil, err
	}
	return store, nil
}

// AuthorizeStore fails with NotAuthorized when the caller's store is not storeID.
func (g *Guard) AuthorizeStore(ctx context.Context, userID, storeID string) (*domain.Store, error) {
	store, err := g.OwnedStore(ctx, userID)
	if err != nil {
		return nil, err
	}
	if store.ID != storeID {
		return nil, failure.NotAuthorized("store", storeID)
	}
	return store, nil
}

// AuthorizeProduct fails with NotAuthorized when the product belongs to another store.
func (g *Guard) AuthorizeProduct(ctx context.Context, userID, productID, productStoreID string) (*domain.Store, error) {
	store, err := g.OwnedStore(ctx, userID)
	if err != nil {
		return nil, err
	}
	if store.ID != productStoreID {
		return nil, failure.NotAuthorized("product", productID)
	}
	return store, nil
}

// AuthorizeListing fails with StoreNotApproved until an administrator approves the store.
func (g *Guard) AuthorizeListing(ctx context.Context, userID string) (*domain.Store, error) {
	store, err := g.OwnedStore(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !store.CanList() {
		return nil, failure.StoreNotApproved(store.ID, string(store.Status))
	}
	return store, nil
}

var _ ports.OwnershipGuard = (*Guard)(nil)
