package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	orderdomain "github.com/Apurer/go-marketplace-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-marketplace-api/internal/domains/orders/ports"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

const tracerName = "github.com/Apurer/go-marketplace-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
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

func New(inner orderports.Service, opts ...Option) orderports.Service {
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

func (s *Service) PlaceOrder(ctx context.Context, input orderports.PlaceOrderInput) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder", trace.WithAttributes(
		attribute.String("user.id", input.UserID),
		attribute.Int("order.requested_items", len(input.Items)),
		attribute.Bool("order.idempotent", input.IdempotencyKey != ""),
	))
	defer span.End()

	order, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		var fe *failure.Error
		if errors.As(err, &fe) && fe.Kind == failure.KindInsufficientStock {
			s.metrics.recordStockRejection(ctx, fe.ID)
			span.SetAttributes(attribute.String("product.id", fe.ID))
		}
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("userId", input.UserID))
	}
	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("order.total", order.Total.StringFixed(2)),
	)
	s.metrics.recordPlaced(ctx, len(order.Items))
	s.logInfo(ctx, "order placed",
		slog.String("orderId", order.ID),
		slog.String("userId", order.UserID),
		slog.String("total", order.Total.StringFixed(2)),
		slog.Int("items", len(order.Items)),
	)
	return order, nil
}

func (s *Service) UpdateStatus(ctx context.Context, input orderports.UpdateStatusInput) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateStatus", trace.WithAttributes(
		attribute.String("order.id", input.OrderID),
		attribute.String("order.status", string(input.Status)),
		attribute.String("actor.id", input.ActorID),
	))
	defer span.End()

	order, err := s.inner.UpdateStatus(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status",
			slog.String("orderId", input.OrderID),
			slog.String("status", string(input.Status)),
		)
	}
	s.metrics.recordStatusChange(ctx, order.Status)
	s.logInfo(ctx, "order status updated",
		slog.String("orderId", order.ID),
		slog.String("status", string(order.Status)),
		slog.String("actorId", input.ActorID),
	)
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()
	order, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return order, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListForUser", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()
	return s.list(span, func() ([]*orderdomain.Order, error) { return s.inner.ListForUser(ctx, userID) })
}

func (s *Service) ListForStore(ctx context.Context, storeID string) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListForStore", trace.WithAttributes(attribute.String("store.id", storeID)))
	defer span.End()
	return s.list(span, func() ([]*orderdomain.Order, error) { return s.inner.ListForStore(ctx, storeID) })
}

func (s *Service) ListAll(ctx context.Context) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListAll")
	defer span.End()
	return s.list(span, func() ([]*orderdomain.Order, error) { return s.inner.ListAll(ctx) })
}

func (s *Service) list(span trace.Span, fn func() ([]*orderdomain.Order, error)) ([]*orderdomain.Order, error) {
	orders, err := fn()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
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
	placed          metric.Int64Counter
	lineItems       metric.Int64Counter
	statusChanges   metric.Int64Counter
	stockRejections metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.placed", metric.WithDescription("Number of orders placed"))
	lineItems, _ := m.Int64Counter("orders.service.line_items", metric.WithDescription("Line items across placed orders"))
	changes, _ := m.Int64Counter("orders.service.status_changes", metric.WithDescription("Order status transitions by target status"))
	rejections, _ := m.Int64Counter("orders.service.stock_rejections", metric.WithDescription("Orders rejected for insufficient stock"))
	return serviceMetrics{placed: placed, lineItems: lineItems, statusChanges: changes, stockRejections: rejections}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, items int) {
	if m.placed != nil {
		m.placed.Add(ctx, 1)
	}
	if m.lineItems != nil {
		m.lineItems.Add(ctx, int64(items))
	}
}

func (m serviceMetrics) recordStatusChange(ctx context.Context, status orderdomain.Status) {
	if m.statusChanges == nil {
		return
	}
	m.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(status))))
}

func (m serviceMetrics) recordStockRejection(ctx context.Context, productID string) {
	if m.stockRejections == nil {
		return
	}
	m.stockRejections.Add(ctx, 1, metric.WithAttributes(attribute.String("product.id", productID)))
}

var _ orderports.Service = (*Service)(nil)
