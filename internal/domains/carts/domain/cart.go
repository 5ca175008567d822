package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyUser       = errors.New("cart owner is required")
	ErrEmptyProduct    = errors.New("cart item product is required")
	ErrInvalidQuantity = errors.New("cart item quantity must be at least 1")
)

// Item references a live product; nothing about the product is snapshotted.
type Item struct {
	ProductID string
	Quantity  int
	StoreID   string
}

// Validate checks a single cart line.
func (i Item) Validate() error {
	if strings.TrimSpace(i.ProductID) == "" {
		return ErrEmptyProduct
	}
	if i.Quantity < 1 {
		return ErrInvalidQuantity
	}
	return nil
}

// Cart is the single shopping cart owned by a user.
type Cart struct {
	ID        string
	UserID    string
	Items     []Item
	UpdatedAt time.Time
}

// NewCart builds an empty cart for userID.
func NewCart(id, userID string) (*Cart, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrEmptyUser
	}
	return &Cart{ID: id, UserID: userID, Items: []Item{}}, nil
}

// Replace swaps the whole item list. Items are validated before anything changes.
func (c *Cart) Replace(items []Item) error {
	next := make([]Item, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		next = append(next, item)
	}
	c.Items = next
	return nil
}

// Merge folds incoming items into the cart: quantities are summed for a product
// already present, new products are appended in incoming order. Merging the same
// payload twice doubles the quantities.
func (c *Cart) Merge(incoming []Item) error {
	for _, item := range incoming {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	merged := append([]Item(nil), c.Items...)
	for _, item := range incoming {
		idx := indexOf(merged, item.ProductID)
		if idx < 0 {
			merged = append(merged, item)
			continue
		}
		merged[idx].Quantity += item.Quantity
	}
	c.Items = merged
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []Item{}
}

// ProductIDs lists distinct product identifiers in item order.
func (c *Cart) ProductIDs() []string {
	seen := make(map[string]struct{}, len(c.Items))
	ids := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// Clone returns a deep copy.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Items = append([]Item{}, c.Items...)
	return &clone
}

func indexOf(items []Item, productID string) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
