package mapper

import (
	"time"

	storedomain "github.com/Apurer/go-marketplace-api/internal/domains/stores/domain"
	storeports "github.com/Apurer/go-marketplace-api/internal/domains/stores/ports"
)

// CreateStoreRequest is the payload for opening a store.
type CreateStoreRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateStoreRequest carries optional field updates.
type UpdateStoreRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Store is the transport representation of a store.
type Store struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Owner       string    `json:"owner"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func ToCreateInput(req CreateStoreRequest) storeports.CreateStoreInput {
	return storeports.CreateStoreInput{Name: req.Name, Description: req.Description}
}

func ToUpdateInput(req UpdateStoreRequest) storeports.UpdateStoreInput {
	return storeports.UpdateStoreInput{Name: req.Name, Description: req.Description}
}

// FromDomainStore converts a domain store to the transport representation.
func FromDomainStore(store *storedomain.Store) Store {
	if store == nil {
		return Store{}
	}
	return Store{
		ID:          store.ID,
		Name:        store.Name,
		Description: store.Description,
		Owner:       store.OwnerID,
		Status:      string(store.Status),
		CreatedAt:   store.CreatedAt,
	}
}

// FromDomainStores converts a list of stores.
func FromDomainStores(stores []*storedomain.Store) []Store {
	result := make([]Store, 0, len(stores))
	for _, store := range stores {
		result = append(result, FromDomainStore(store))
	}
	return result
}
