package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration settings for the map service: the
// environment, HTTP port, geocoding provider selection, cache backend,
// enrichment concurrency, default map viewport and the external
// collaborator endpoints (payment gateway and internal backend).
type Config struct {
	Env               string         // Env is the current environment: local, development, production.
	Port              int            // Port is the HTTP server port.
	ProviderType      string         // ProviderType specifies which geocoding provider to use.
	ProviderAPIKey    string         // API key for the provider (required for Google).
	GeocoderBaseURL   string         // Base URL of the Nominatim-compatible endpoint.
	CountryCode       string         // ISO country code restriction for lookups.
	CountryName       string         // Country name appended to postal address queries.
	CacheBackend      string         // Cache backend: memory, redis or postgres.
	CacheTTL          time.Duration  // Cache entry lifetime for memory/redis backends.
	RedisAddr         string         // Redis address for the redis cache backend.
	RedisPassword     string         // Redis password, may be empty.
	Database          PostgresConfig // Database holds the postgres configuration.
	EnrichConcurrency int            // Cap on concurrent geocoding lookups per batch.
	DefaultCenterLat  float64        // Default map center latitude.
	DefaultCenterLng  float64        // Default map center longitude.
	DefaultZoom       int            // Default map zoom level.
	GatewayBaseURL    string         // Payment gateway API base URL.
	GatewayToken      string         // Payment gateway access token (secret).
	BackendBaseURL    string         // Internal Leiloom backend base URL.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// MustLoad loads the configuration from the environment and returns a
// Config struct. It panics on malformed numeric values, since the
// service cannot do anything useful with a broken configuration.
func MustLoad() *Config {
	_ = godotenv.Load()

	port, err := strconv.Atoi(setDefaultEnv("LEILOOM_PORT", "8080"))
	if err != nil {
		panic("failed to parse HTTP port from configuration")
	}

	cacheTTL, err := time.ParseDuration(setDefaultEnv("LEILOOM_CACHE_TTL", "12h"))
	if err != nil {
		panic("failed to parse cache TTL from configuration")
	}

	concurrency, err := strconv.Atoi(setDefaultEnv("LEILOOM_ENRICH_CONCURRENCY", "8"))
	if err != nil {
		panic("failed to parse enrichment concurrency from configuration, must be an integer")
	}

	centerLat, err := strconv.ParseFloat(setDefaultEnv("LEILOOM_MAP_CENTER_LAT", "-14.235"), 64)
	if err != nil {
		panic("failed to parse default map center latitude from configuration")
	}

	centerLng, err := strconv.ParseFloat(setDefaultEnv("LEILOOM_MAP_CENTER_LNG", "-51.9253"), 64)
	if err != nil {
		panic("failed to parse default map center longitude from configuration")
	}

	zoom, err := strconv.Atoi(setDefaultEnv("LEILOOM_MAP_ZOOM", "4"))
	if err != nil {
		panic("failed to parse default map zoom from configuration")
	}

	return &Config{
		Env:               setDefaultEnv("LEILOOM_ENV", "production"),
		Port:              port,
		ProviderType:      setDefaultEnv("LEILOOM_PROVIDER_TYPE", "nominatim"),
		ProviderAPIKey:    os.Getenv("LEILOOM_PROVIDER_KEY"),
		GeocoderBaseURL:   setDefaultEnv("LEILOOM_GEOCODER_URL", "https://nominatim.openstreetmap.org/search"),
		CountryCode:       setDefaultEnv("LEILOOM_COUNTRY_CODE", "br"),
		CountryName:       setDefaultEnv("LEILOOM_COUNTRY_NAME", "Brasil"),
		CacheBackend:      setDefaultEnv("LEILOOM_CACHE_BACKEND", "memory"),
		CacheTTL:          cacheTTL,
		RedisAddr:         os.Getenv("LEILOOM_REDIS_ADDR"),
		RedisPassword:     os.Getenv("LEILOOM_REDIS_PASSWORD"),
		EnrichConcurrency: concurrency,
		DefaultCenterLat:  centerLat,
		DefaultCenterLng:  centerLng,
		DefaultZoom:       zoom,
		GatewayBaseURL:    setDefaultEnv("LEILOOM_GATEWAY_URL", "https://api.mercadopago.com"),
		GatewayToken:      os.Getenv("LEILOOM_GATEWAY_TOKEN"),
		BackendBaseURL:    setDefaultEnv("LEILOOM_BACKEND_URL", "http://localhost:3333"),
		Database: PostgresConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     setDefaultEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
		},
	}
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}
