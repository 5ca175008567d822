package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "POSTGRES_DSN", "REDIS_ADDR", "KAFKA_BROKERS", "SESSION_TTL_HOURS", "CART_TTL_HOURS", "ADMIN_EMAIL", "ADMIN_PASSWORD", "TEMPORAL_DISABLED", "SESSION_PURGE_INTERVAL_MINUTES", "REDIS_DB"} {
		t.Setenv(key, "")
	}
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Zero(t, cfg.CartTTL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "marketplace.orders", cfg.KafkaOrderTopic)
	assert.False(t, cfg.TemporalDisabled)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("CART_TTL_HOURS", "48")
	t.Setenv("TEMPORAL_DISABLED", "true")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "secret-pass")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 48*time.Hour, cfg.CartTTL)
	assert.True(t, cfg.TemporalDisabled)
	assert.Equal(t, "admin@example.com", cfg.AdminEmail)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("SESSION_PURGE_INTERVAL_MINUTES", "0")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("SESSION_PURGE_INTERVAL_MINUTES", "")
	t.Setenv("SESSION_TTL_HOURS", "-1")
	_, err = LoadConfig()
	assert.Error(t, err)

	t.Setenv("SESSION_TTL_HOURS", "")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "")
	_, err = LoadConfig()
	assert.Error(t, err)
}
