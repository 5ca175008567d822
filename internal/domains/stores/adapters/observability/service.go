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

	storedomain "github.com/Apurer/go-marketplace-api/internal/domains/stores/domain"
	storeports "github.com/Apurer/go-marketplace-api/internal/domains/stores/ports"
)

const tracerName = "github.com/Apurer/go-marketplace-api/internal/domains/stores/adapters/observability/service"

// Service decorates the store service with tracing, logging, and metrics.
type Service struct {
	inner   storeports.Service
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

// New wraps the core store service.
func New(inner storeports.Service, opts ...Option) storeports.Service {
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

func (s *Service) CreateStore(ctx context.Context, ownerID string, input storeports.CreateStoreInput) (*storedomain.Store, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.CreateStore", trace.WithAttributes(attribute.String("store.owner_id", ownerID)))
	defer span.End()
	result, err := s.inner.CreateStore(ctx, ownerID, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create store", slog.String("ownerId", ownerID))
	}
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "store created", slog.String("storeId", result.ID), slog.String("ownerId", ownerID))
	return result, nil
}

func (s *Service) GetMine(ctx context.Context, ownerID string) (*storedomain.Store, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.GetMine", trace.WithAttributes(attribute.String("store.owner_id", ownerID)))
	defer span.End()
	return s.inner.GetMine(ctx, ownerID)
}

func (s *Service) GetByID(ctx context.Context, id string) (*storedomain.Store, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.GetByID", trace.WithAttributes(attribute.String("store.id", id)))
	defer span.End()
	return s.inner.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter storeports.ListFilter) ([]*storedomain.Store, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.List")
	defer span.End()
	if filter.Status != nil {
		span.SetAttributes(attribute.String("store.status", string(*filter.Status)))
	}
	return s.inner.List(ctx, filter)
}

func (s *Service) UpdateStore(ctx context.Context, actorID, storeID string, input storeports.UpdateStoreInput) (*storedomain.Store, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.UpdateStore", trace.WithAttributes(
		attribute.String("store.id", storeID),
		attribute.String("user.id", actorID),
	))
	defer span.End()
	result, err := s.inner.UpdateStore(ctx, actorID, storeID, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update store", slog.String("storeId", storeID))
	}
	return result, nil
}

func (s *Service) Approve(ctx context.Context, storeID string) (*storedomain.Store, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.Approve", trace.WithAttributes(attribute.String("store.id", storeID)))
	defer span.End()
	result, err := s.inner.Approve(ctx, storeID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to approve store", slog.String("storeId", storeID))
	}
	s.metrics.recordReviewed(ctx, result.Status)
	s.logInfo(ctx, "store approved", slog.String("storeId", storeID))
	return result, nil
}

func (s *Service) Reject(ctx context.Context, storeID string) (*storedomain.Store, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.Reject", trace.WithAttributes(attribute.String("store.id", storeID)))
	defer span.End()
	result, err := s.inner.Reject(ctx, storeID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to reject store", slog.String("storeId", storeID))
	}
	s.metrics.recordReviewed(ctx, result.Status)
	s.logInfo(ctx, "store rejected", slog.String("storeId", storeID))
	return result, nil
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
	created  metric.Int64Counter
	reviewed metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("stores.service.created", metric.WithDescription("Number of stores opened"))
	reviewed, _ := m.Int64Counter("stores.service.reviewed", metric.WithDescription("Number of store reviews by outcome"))
	return serviceMetrics{created: created, reviewed: reviewed}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.created != nil {
		m.created.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordReviewed(ctx context.Context, status storedomain.Status) {
	if m.reviewed != nil {
		m.reviewed.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(status))))
	}
}

var _ storeports.Service = (*Service)(nil)
