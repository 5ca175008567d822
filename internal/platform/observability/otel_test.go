package observability

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, slog.LevelDebug, logLevel())

	t.Setenv("LOG_LEVEL", "chatty")
	assert.Equal(t, slog.LevelInfo, logLevel())
}

func TestInstruments_NilFallbacks(t *testing.T) {
	var instruments *Instruments
	assert.NotNil(t, instruments.Tracer("test"))
	assert.NotNil(t, instruments.Meter("test"))

	rec := httptest.NewRecorder()
	instruments.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOTLPProtocol(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", "")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "")
	assert.Equal(t, "http/protobuf", otlpProtocol())

	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "gRPC")
	assert.Equal(t, "grpc", otlpProtocol())

	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", "http/json")
	assert.Equal(t, "http/protobuf", otlpProtocol())
}
