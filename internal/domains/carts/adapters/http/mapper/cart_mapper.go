package mapper

import (
	"time"

	cartdomain "github.com/Apurer/go-marketplace-api/internal/domains/carts/domain"
)

type CartItem struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Store    string `json:"store"`
}

// CartRequest is used by both replace and sync.
type CartRequest struct {
	Items []CartItem `json:"items"`
}

type Cart struct {
	ID        string     `json:"id"`
	User      string     `json:"user"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func ToDomainItems(req CartRequest) []cartdomain.Item {
	items := make([]cartdomain.Item, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, cartdomain.Item{ProductID: item.Product, Quantity: item.Quantity, StoreID: item.Store})
	}
	return items
}

func FromDomainCart(cart *cartdomain.Cart) Cart {
	if cart == nil {
		return Cart{Items: []CartItem{}}
	}
	items := make([]CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, CartItem{Product: item.ProductID, Quantity: item.Quantity, Store: item.StoreID})
	}
	return Cart{ID: cart.ID, User: cart.UserID, Items: items, UpdatedAt: cart.UpdatedAt}
}
