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

	cartdomain "github.com/Apurer/go-marketplace-api/internal/domains/carts/domain"
	cartports "github.com/Apurer/go-marketplace-api/internal/domains/carts/ports"
)

const tracerName = "github.com/Apurer/go-marketplace-api/internal/domains/carts/adapters/observability/service"

// Service decorates the cart service with tracing, logging, and metrics.
type Service struct {
	inner   cartports.Service
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

func New(inner cartports.Service, opts ...Option) cartports.Service {
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

func (s *Service) Get(ctx context.Context, userID string) (*cartdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.Get", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()
	return s.inner.Get(ctx, userID)
}

func (s *Service) Replace(ctx context.Context, userID string, items []cartdomain.Item) (*cartdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.Replace", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.Int("cart.incoming_items", len(items)),
	))
	defer span.End()
	result, err := s.inner.Replace(ctx, userID, items)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to replace cart", slog.String("userId", userID))
	}
	return result, nil
}

func (s *Service) Sync(ctx context.Context, userID string, items []cartdomain.Item) (*cartdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.Sync", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.Int("cart.incoming_items", len(items)),
	))
	defer span.End()
	result, err := s.inner.Sync(ctx, userID, items)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to sync cart", slog.String("userId", userID))
	}
	span.SetAttributes(attribute.Int("cart.items", len(result.Items)))
	s.metrics.recordSync(ctx, len(items))
	s.logInfo(ctx, "cart synced", slog.String("userId", userID), slog.Int("items", len(result.Items)))
	return result, nil
}

func (s *Service) Clear(ctx context.Context, userID string) (*cartdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.Clear", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()
	result, err := s.inner.Clear(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to clear cart", slog.String("userId", userID))
	}
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
	syncs       metric.Int64Counter
	mergedItems metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	syncs, _ := m.Int64Counter("carts.service.syncs", metric.WithDescription("Number of cart sync merges"))
	merged, _ := m.Int64Counter("carts.service.merged_items", metric.WithDescription("Client-side items merged into carts"))
	return serviceMetrics{syncs: syncs, mergedItems: merged}
}

func (m serviceMetrics) recordSync(ctx context.Context, incoming int) {
	if m.syncs != nil {
		m.syncs.Add(ctx, 1)
	}
	if m.mergedItems != nil {
		m.mergedItems.Add(ctx, int64(incoming))
	}
}

var _ cartports.Service = (*Service)(nil)
