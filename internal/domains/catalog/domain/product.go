package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName       = errors.New("product name is required")
	ErrEmptyStore      = errors.New("product store is required")
	ErrNegativePrice   = errors.New("price must be greater or equal to zero")
	ErrNegativeStock   = errors.New("stock must be greater or equal to zero")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrEmptyImageURL   = errors.New("image urls must not be blank")
	ErrEmptyCategory   = errors.New("category name is required")
)

// Product is a sellable item owned by exactly one store.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	StoreID     string
	// CategoryID is empty when the product is uncategorized.
	CategoryID string
	ImageURLs  []string
	CreatedAt  time.Time
}

// NewProduct validates the invariants and builds a new Product.
func NewProduct(id, storeID, name string, price decimal.Decimal, stock int) (*Product, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return nil, ErrEmptyStore
	}
	p := &Product{ID: id, StoreID: storeID}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	if err := p.Reprice(price); err != nil {
		return nil, err
	}
	if err := p.SetStock(stock); err != nil {
		return nil, err
	}
	return p, nil
}

// Rename mutates the product name ensuring the invariant.
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// Describe replaces the description.
func (p *Product) Describe(description string) {
	p.Description = strings.TrimSpace(description)
}

// Reprice sets a non-negative price.
func (p *Product) Reprice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	p.Price = price
	return nil
}

// SetStock sets a non-negative stock level.
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return ErrNegativeStock
	}
	p.Stock = stock
	return nil
}

// Categorize assigns or clears (empty id) the category.
func (p *Product) Categorize(categoryID string) {
	p.CategoryID = strings.TrimSpace(categoryID)
}

// ReplaceImages swaps the image list.
func (p *Product) ReplaceImages(urls []string) error {
	images := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			return ErrEmptyImageURL
		}
		images = append(images, u)
	}
	p.ImageURLs = images
	return nil
}

// CanFulfil reports whether current stock covers quantity.
func (p *Product) CanFulfil(quantity int) bool {
	return quantity > 0 && p.Stock >= quantity
}

// Clone returns a deep copy.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	clone.ImageURLs = append([]string(nil), p.ImageURLs...)
	return &clone
}

// Validate re-applies invariants before persistence.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.StoreID) == "" {
		return ErrEmptyStore
	}
	if err := p.Rename(p.Name); err != nil {
		return err
	}
	if err := p.Reprice(p.Price); err != nil {
		return err
	}
	return p.SetStock(p.Stock)
}

// Category groups products.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// NewCategory validates and builds a category.
func NewCategory(id, name, description string) (*Category, error) {
	c := &Category{ID: id}
	if err := c.Rename(name); err != nil {
		return nil, err
	}
	c.Description = strings.TrimSpace(description)
	return c, nil
}

// Rename validates the category name.
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyCategory
	}
	c.Name = name
	return nil
}
