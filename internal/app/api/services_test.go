package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.temporal.io/sdk/client"

	orderworkflows "github.com/Apurer/go-marketplace-api/internal/domains/orders/adapters/workflows"

	userports "github.com/Apurer/go-marketplace-api/internal/domains/users/ports"
	platformobservability "github.com/Apurer/go-marketplace-api/internal/platform/observability"
)

func quietInstruments() *platformobservability.Instruments {
	return &platformobservability.Instruments{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestBuildServices_InMemoryWithAdmin(t *testing.T) {
	cfg := Config{
		SessionTTL:    time.Hour,
		AdminName:     "Admin",
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin-secret",
	}
	services, err := BuildServices(context.Background(), cfg, quietInstruments())
	require.NoError(t, err)
	t.Cleanup(func() { _ = services.Close() })

	assert.Nil(t, services.SessionPurger)
	assert.False(t, services.Durable)
	session, err := services.Users.Login(context.Background(), "admin@example.com", "admin-secret")
	require.NoError(t, err)
	assert.True(t, session.User.IsAdmin())

	_, err = services.Users.Register(context.Background(), userports.RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "pa55word"})
	require.NoError(t, err)
}

func TestBuildServices_UnreachableBackendsFallBack(t *testing.T) {
	cfg := Config{
		PostgresDSN: "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1",
		RedisAddr:   "127.0.0.1:1",
		SessionTTL:  time.Hour,
	}
	services, err := BuildServices(context.Background(), cfg, quietInstruments())
	require.NoError(t, err)
	t.Cleanup(func() { _ = services.Close() })

	assert.Nil(t, services.SessionPurger)
	assert.NotNil(t, services.Orders)
	assert.False(t, services.Durable)
}

type stubPurger struct {
	removed int64
	err     error
}

func (p stubPurger) PurgeExpired(context.Context) (int64, error) { return p.removed, p.err }

func TestPurgeSessions(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	removed, err := PurgeSessions(context.Background(), stubPurger{removed: 3}, logger)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	_, err = PurgeSessions(context.Background(), stubPurger{err: errors.New("boom")}, logger)
	assert.EqualError(t, err, "boom")
}

func TestSelectOrderWorkflows_InMemoryStaysInline(t *testing.T) {
	services, err := BuildServices(context.Background(), Config{SessionTTL: time.Hour}, quietInstruments())
	require.NoError(t, err)
	t.Cleanup(func() { _ = services.Close() })

	dialed := false
	orchestrator, closeFn := selectOrderWorkflows(services, func() (client.Client, error) {
		dialed = true
		return nil, errors.New("unexpected dial")
	}, quietInstruments().Logger)
	defer closeFn()

	assert.False(t, dialed)
	assert.IsType(t, &orderworkflows.InlineOrderWorkflows{}, orchestrator)
}

func TestSelectOrderWorkflows_DurableFallsBackWhenTemporalIsDown(t *testing.T) {
	services := &Services{Durable: true}
	dialed := false
	orchestrator, closeFn := selectOrderWorkflows(services, func() (client.Client, error) {
		dialed = true
		return nil, errors.New("connection refused")
	}, quietInstruments().Logger)
	defer closeFn()

	assert.True(t, dialed)
	assert.IsType(t, &orderworkflows.InlineOrderWorkflows{}, orchestrator)
}

func TestNewRouter_TracesEveryRoute(t *testing.T) {
	services, err := BuildServices(context.Background(), Config{SessionTTL: time.Hour}, quietInstruments())
	require.NoError(t, err)
	t.Cleanup(func() { _ = services.Close() })

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	router := newRouter(services, orderworkflows.NewInlineOrderWorkflows(services.Orders), http.NotFoundHandler(),
		otelgin.WithTracerProvider(provider))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Contains(t, spans[0].Name(), "/healthz")
	assert.Contains(t, spans[1].Name(), "/api/products")
}

func TestConnectTemporal_Disabled(t *testing.T) {
	_, err := ConnectTemporal(Config{TemporalDisabled: true}, quietInstruments(), "test")
	assert.Error(t, err)
}
