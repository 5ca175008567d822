package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogdomain "github.com/Apurer/go-marketplace-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-marketplace-api/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/go-marketplace-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

func New(inner catalogports.Service, opts ...Option) catalogports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) CreateProduct(ctx context.Context, actorID string, input catalogports.CreateProductInput) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct", trace.WithAttributes(attribute.String("user.id", actorID)))
	defer span.End()
	result, err := s.inner.CreateProduct(ctx, actorID, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.String("userId", actorID))
	}
	span.SetAttributes(attribute.String("product.id", result.ID), attribute.String("store.id", result.StoreID))
	s.metrics.recordMutation(ctx, "create")
	s.logInfo(ctx, "product created", slog.String("productId", result.ID), slog.String("storeId", result.StoreID))
	return result, nil
}

func (s *Service) UpdateProduct(ctx context.Context, actorID, productID string, input catalogports.UpdateProductInput) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct", trace.WithAttributes(
		attribute.String("product.id", productID),
		attribute.String("user.id", actorID),
	))
	defer span.End()
	result, err := s.inner.UpdateProduct(ctx, actorID, productID, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.String("productId", productID))
	}
	s.metrics.recordMutation(ctx, "update")
	return result, nil
}

func (s *Service) DeleteProduct(ctx context.Context, actorID, productID string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct", trace.WithAttributes(
		attribute.String("product.id", productID),
		attribute.String("user.id", actorID),
	))
	defer span.End()
	if err := s.inner.DeleteProduct(ctx, actorID, productID); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.String("productId", productID))
	}
	s.metrics.recordMutation(ctx, "delete")
	s.logInfo(ctx, "product deleted", slog.String("productId", productID))
	return nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()
	return s.inner.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, filter catalogports.ProductFilter) ([]*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts", trace.WithAttributes(
		attribute.String("store.id", filter.StoreID),
		attribute.String("category.id", filter.CategoryID),
	))
	defer span.End()
	return s.inner.ListProducts(ctx, filter)
}

func (s *Service) CreateCategory(ctx context.Context, input catalogports.CategoryInput) (*catalogdomain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateCategory")
	defer span.End()
	result, err := s.inner.CreateCategory(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create category", slog.String("name", input.Name))
	}
	return result, nil
}

func (s *Service) GetCategory(ctx context.Context, id string) (*catalogdomain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetCategory", trace.WithAttributes(attribute.String("category.id", id)))
	defer span.End()
	return s.inner.GetCategory(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]*catalogdomain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListCategories")
	defer span.End()
	return s.inner.ListCategories(ctx)
}

func (s *Service) UpdateCategory(ctx context.Context, id string, input catalogports.CategoryInput) (*catalogdomain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateCategory", trace.WithAttributes(attribute.String("category.id", id)))
	defer span.End()
	result, err := s.inner.UpdateCategory(ctx, id, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update category", slog.String("categoryId", id))
	}
	return result, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteCategory", trace.WithAttributes(attribute.String("category.id", id)))
	defer span.End()
	if err := s.inner.DeleteCategory(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete category", slog.String("categoryId", id))
	}
	return nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

type serviceMetrics struct {
	mutations metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	mutations, _ := m.Int64Counter("catalog.service.product_mutations", metric.WithDescription("Number of product writes by operation"))
	return serviceMetrics{mutations: mutations}
}

func (m serviceMetrics) recordMutation(ctx context.Context, op string) {
	if m.mutations != nil {
		m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
	}
}

var _ catalogports.Service = (*Service)(nil)
