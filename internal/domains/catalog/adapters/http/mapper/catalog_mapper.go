package mapper

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/go-marketplace-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-marketplace-api/internal/domains/catalog/ports"
)

// CreateProductRequest is the payload for listing a product. Price accepts a JSON number or string.
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Images      []string        `json:"images"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Category    *string          `json:"category"`
	Images      *[]string        `json:"images"`
}

// Product is the transport representation of a product.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Stock       int         `json:"stock"`
	Store       string      `json:"store"`
	Category    string      `json:"category,omitempty"`
	Images      []string    `json:"images"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type Category struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func ToCreateProductInput(req CreateProductRequest) catalogports.CreateProductInput {
	return catalogports.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.Category,
		ImageURLs:   req.Images,
	}
}

func ToUpdateProductInput(req UpdateProductRequest) catalogports.UpdateProductInput {
	return catalogports.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.Category,
		ImageURLs:   req.Images,
	}
}

func ToCategoryInput(req CategoryRequest) catalogports.CategoryInput {
	return catalogports.CategoryInput{Name: req.Name, Description: req.Description}
}

// FromDomainProduct converts a domain product to the transport representation.
func FromDomainProduct(p *catalogdomain.Product) Product {
	if p == nil {
		return Product{}
	}
	images := p.ImageURLs
	if images == nil {
		images = []string{}
	}
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       json.Number(p.Price.String()),
		Stock:       p.Stock,
		Store:       p.StoreID,
		Category:    p.CategoryID,
		Images:      images,
		CreatedAt:   p.CreatedAt,
	}
}

func FromDomainProducts(products []*catalogdomain.Product) []Product {
	result := make([]Product, 0, len(products))
	for _, p := range products {
		result = append(result, FromDomainProduct(p))
	}
	return result
}

func FromDomainCategory(c *catalogdomain.Category) Category {
	if c == nil {
		return Category{}
	}
	return Category{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}
}

func FromDomainCategories(categories []*catalogdomain.Category) []Category {
	result := make([]Category, 0, len(categories))
	for _, c := range categories {
		result = append(result, FromDomainCategory(c))
	}
	return result
}
