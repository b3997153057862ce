package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leiloom/map-service/internal/config"
)

func TestMustLoad(t *testing.T) {
	t.Setenv("LEILOOM_ENV", "local")
	t.Setenv("LEILOOM_PORT", "9090")
	t.Setenv("LEILOOM_PROVIDER_TYPE", "google")
	t.Setenv("LEILOOM_PROVIDER_KEY", "testAPIKey")
	t.Setenv("LEILOOM_CACHE_BACKEND", "redis")
	t.Setenv("LEILOOM_CACHE_TTL", "30m")
	t.Setenv("LEILOOM_REDIS_ADDR", "localhost:6379")
	t.Setenv("LEILOOM_ENRICH_CONCURRENCY", "4")
	t.Setenv("LEILOOM_MAP_CENTER_LAT", "-3.1019")
	t.Setenv("LEILOOM_MAP_CENTER_LNG", "-60.025")
	t.Setenv("LEILOOM_MAP_ZOOM", "12")
	t.Setenv("LEILOOM_GATEWAY_TOKEN", "secret-token")
	t.Setenv("DB_HOST", "testHost")
	t.Setenv("DB_PORT", "12345")
	t.Setenv("DB_USERNAME", "admin")
	t.Setenv("DB_PASSWORD", "adminpass")
	t.Setenv("DB_NAME", "testName")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "google", cfg.ProviderType)
	assert.Equal(t, "testAPIKey", cfg.ProviderAPIKey)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 4, cfg.EnrichConcurrency)
	assert.InEpsilon(t, -3.1019, cfg.DefaultCenterLat, 1e-9)
	assert.InEpsilon(t, -60.025, cfg.DefaultCenterLng, 1e-9)
	assert.Equal(t, 12, cfg.DefaultZoom)
	assert.Equal(t, "secret-token", cfg.GatewayToken)
	assert.Equal(t, "testHost", cfg.Database.Host)
	assert.Equal(t, "12345", cfg.Database.Port)
	assert.Equal(t, "admin", cfg.Database.User)
	assert.Equal(t, "adminpass", cfg.Database.Password)
	assert.Equal(t, "testName", cfg.Database.Name)
}

func TestMustLoad_Defaults(t *testing.T) {
	cfg := config.MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "nominatim", cfg.ProviderType)
	assert.Equal(t, "br", cfg.CountryCode)
	assert.Equal(t, "Brasil", cfg.CountryName)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, 8, cfg.EnrichConcurrency)
	assert.Equal(t, 4, cfg.DefaultZoom)
}

func TestMustLoad_PortError(t *testing.T) {
	t.Setenv("LEILOOM_PORT", "error_value")

	assert.PanicsWithValue(t, "failed to parse HTTP port from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_CacheTTLError(t *testing.T) {
	t.Setenv("LEILOOM_CACHE_TTL", "error_value")

	assert.PanicsWithValue(t, "failed to parse cache TTL from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_CenterLatError(t *testing.T) {
	t.Setenv("LEILOOM_MAP_CENTER_LAT", "not-a-float")

	assert.PanicsWithValue(t, "failed to parse default map center latitude from configuration", func() {
		config.MustLoad()
	})
}
