package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-marketplace-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

// Service implements product and category use cases.
type Service struct {
	products   ports.ProductRepository
	categories ports.CategoryRepository
	access     ports.StoreAccess
	now        func() time.Time
	newID      func() string
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

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(products ports.ProductRepository, categories ports.CategoryRepository, access ports.StoreAccess, opts ...Option) *Service {
	s := &Service{
		products:   products,
		categories: categories,
		access:     access,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateProduct lists a product in the caller's approved store.
func (s *Service) CreateProduct(ctx context.Context, actorID string, input ports.CreateProductInput) (*domain.Product, error) {
	storeID, err := s.access.AuthorizeListing(ctx, actorID)
	if err != nil {
		return nil, err
	}
	product, err := domain.NewProduct(s.newID(), storeID, input.Name, input.Price, input.Stock)
	if err != nil {
		return nil, mapError(err)
	}
	product.Describe(input.Description)
	if err := product.ReplaceImages(input.ImageURLs); err != nil {
		return nil, mapError(err)
	}
	if err := s.assignCategory(ctx, product, input.CategoryID); err != nil {
		return nil, err
	}
	product.CreatedAt = s.now().UTC()
	return s.products.Save(ctx, product)
}

// UpdateProduct applies owner edits; the owning store never changes.
func (s *Service) UpdateProduct(ctx context.Context, actorID, productID string, input ports.UpdateProductInput) (*domain.Product, error) {
	product, err := s.ownedProduct(ctx, actorID, productID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := product.Rename(*input.Name); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Description != nil {
		product.Describe(*input.Description)
	}
	if input.Price != nil {
		if err := product.Reprice(*input.Price); err != nil {
			return nil, mapError(err)
		}
	}
	stockChanged := input.Stock != nil
	if stockChanged {
		if err := product.SetStock(*input.Stock); err != nil {
			return nil, mapError(err)
		}
	}
	if input.ImageURLs != nil {
		if err := product.ReplaceImages(*input.ImageURLs); err != nil {
			return nil, mapError(err)
		}
	}
	if input.CategoryID != nil {
		if err := s.assignCategory(ctx, product, *input.CategoryID); err != nil {
			return nil, err
		}
	}
	if stockChanged {
		return s.products.Save(ctx, product)
	}
	updated, err := s.products.UpdateDetails(ctx, product)
	if errors.Is(err, ports.ErrProductNotFound) {
		return nil, failure.NotFound("product", productID)
	}
	return updated, err
}

// DeleteProduct removes a product owned by the caller's store.
func (s *Service) DeleteProduct(ctx context.Context, actorID, productID string) error {
	if _, err := s.ownedProduct(ctx, actorID, productID); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, productID); err != nil {
		if errors.Is(err, ports.ErrProductNotFound) {
			return failure.NotFound("product", productID)
		}
		return err
	}
	return nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrProductNotFound) {
			return nil, failure.NotFound("product", id)
		}
		return nil, err
	}
	return product, nil
}

func (s *Service) ListProducts(ctx context.Context, filter ports.ProductFilter) ([]*domain.Product, error) {
	return s.products.List(ctx, filter)
}

func (s *Service) CreateCategory(ctx context.Context, input ports.CategoryInput) (*domain.Category, error) {
	category, err := domain.NewCategory(s.newID(), input.Name, input.Description)
	if err != nil {
		return nil, mapError(err)
	}
	category.CreatedAt = s.now().UTC()
	return s.categories.Save(ctx, category)
}

func (s *Service) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrCategoryNotFound) {
			return nil, failure.NotFound("category", id)
		}
		return nil, err
	}
	return category, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) UpdateCategory(ctx context.Context, id string, input ports.CategoryInput) (*domain.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := category.Rename(input.Name); err != nil {
		return nil, mapError(err)
	}
	category.Description = input.Description
	return s.categories.Save(ctx, category)
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, ports.ErrCategoryNotFound) {
			return failure.NotFound("category", id)
		}
		return err
	}
	return nil
}

func (s *Service) ownedProduct(ctx context.Context, actorID, productID string) (*domain.Product, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.access.AuthorizeProduct(ctx, actorID, product.ID, product.StoreID); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) assignCategory(ctx context.Context, product *domain.Product, categoryID string) error {
	if categoryID == "" {
		product.Categorize("")
		return nil
	}
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return err
	}
	product.Categorize(categoryID)
	return nil
}

var _ ports.Service = (*Service)(nil)
