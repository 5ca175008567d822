package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	marketplaceserver "github.com/Apurer/go-marketplace-api/go"
	orderworkflows "github.com/Apurer/go-marketplace-api/internal/domains/orders/adapters/workflows"
	orderports "github.com/Apurer/go-marketplace-api/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/go-marketplace-api/internal/platform/observability"
)

const serviceName = "marketplace-api"

// Run boots the marketplace HTTP API with observability, repositories, and workflows wired.
// It blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	services, err := BuildServices(ctx, cfg, instruments)
	if err != nil {
		return fmt.Errorf("failed to build services: %w", err)
	}
	defer func() {
		if err := services.Close(); err != nil {
			logger.Warn("failed to release backends", slog.String("error", err.Error()))
		}
	}()

	orderWorkflows, closeWorkflows := selectOrderWorkflows(services, func() (client.Client, error) {
		return ConnectTemporal(cfg, instruments, "temporal-client")
	}, logger)
	defer closeWorkflows()

	if services.SessionPurger != nil && cfg.SessionPurgeIntervalMinute > 0 {
		go runSessionPurge(ctx, services.SessionPurger, time.Duration(cfg.SessionPurgeIntervalMinute)*time.Minute, logger)
	}

	router := newRouter(services, orderWorkflows, instruments.Handler())

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("marketplace API listening", slog.String("addr", server.Addr))
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("marketplace API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down marketplace API")
		return server.Shutdown(shutdownCtx)
	}
}

// selectOrderWorkflows places orders through Temporal only when repositories are durable.
// The worker runs in its own process, so in-memory state would never reach it.
func selectOrderWorkflows(services *Services, dial func() (client.Client, error), logger *slog.Logger) (orderports.WorkflowOrchestrator, func()) {
	inline := orderworkflows.NewInlineOrderWorkflows(services.Orders)
	if !services.Durable {
		logger.Warn("repositories are in memory, placing orders inline without Temporal")
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled")
	return orderworkflows.NewTemporalOrderWorkflows(temporalClient), temporalClient.Close
}

// newRouter registers the tracing middleware on the engine before any route so every request is traced.
func newRouter(services *Services, orderWorkflows orderports.WorkflowOrchestrator, metrics http.Handler, opts ...otelgin.Option) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName, opts...))
	return marketplaceserver.NewRouterWithGinEngine(engine, marketplaceserver.ApiHandleFunctions{
		AuthAPI:    marketplaceserver.NewAuthAPI(services.Users),
		StoreAPI:   marketplaceserver.NewStoreAPI(services.Stores),
		CatalogAPI: marketplaceserver.NewCatalogAPI(services.Catalog),
		CartAPI:    marketplaceserver.NewCartAPI(services.Carts),
		OrderAPI:   marketplaceserver.NewOrderAPI(services.Orders, orderWorkflows, services.Stores),
		Metrics:    metrics,
	})
}

// ConnectTemporal dials Temporal with tracing and structured logging interceptors.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer(tracerName),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

// PurgeSessions runs one purge pass and logs the outcome.
func PurgeSessions(ctx context.Context, purger SessionPurger, logger *slog.Logger) (int64, error) {
	removed, err := purger.PurgeExpired(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to purge expired sessions", slog.String("error", err.Error()))
		return 0, err
	}
	logger.InfoContext(ctx, "expired sessions purged", slog.Int64("removed", removed))
	return removed, nil
}

func runSessionPurge(ctx context.Context, purger SessionPurger, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = PurgeSessions(ctx, purger, logger)
		}
	}
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
