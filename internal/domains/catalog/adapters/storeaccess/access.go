package storeaccess

import (
	"context"

	catalogports "github.com/Apurer/go-marketplace-api/internal/domains/catalog/ports"
	storeports "github.com/Apurer/go-marketplace-api/internal/domains/stores/ports"
)

var _ catalogports.StoreAccess = (*Access)(nil)

// Access adapts the stores ownership guard to the catalog port.
type Access struct {
	guard storeports.OwnershipGuard
}

func New(guard storeports.OwnershipGuard) *Access {
	return &Access{guard: guard}
}

func (a *Access) AuthorizeListing(ctx context.Context, userID string) (string, error) {
	store, err := a.guard.AuthorizeListing(ctx, userID)
	if err != nil {
		return "", err
	}
	return store.ID, nil
}

func (a *Access) AuthorizeProduct(ctx context.Context, userID, productID, storeID string) error {
	_, err := a.guard.AuthorizeProduct(ctx, userID, productID, storeID)
	return err
}
