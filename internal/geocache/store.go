// Package geocache provides the session-scoped coordinate cache keyed by
// normalized address. The cache is read and written by the geocoding
// resolver only; all stores are exact-match on the normalized key and
// last-write-wins on Set.
package geocache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leiloom/map-service/internal/models"
	"github.com/redis/go-redis/v9"
)

// Store is the cache contract used by the resolver. Get never triggers
// geocoding I/O; the boolean reports whether the key was present. Set
// overwrites unconditionally.
type Store interface {
	Get(ctx context.Context, key string) (models.Coordinate, bool, error)
	Set(ctx context.Context, key string, coords models.Coordinate) error
}

// Key derives the cache key for a normalized address.
func Key(normalized string) string {
	return "geo_" + strings.ToLower(normalized)
}

// BackendType represents the backing store for the geocode cache.
type BackendType string

const (
	// BackendMemory keeps entries in-process for the lifetime of the service.
	BackendMemory BackendType = "memory"
	// BackendRedis shares entries across instances via Redis.
	BackendRedis BackendType = "redis"
	// BackendPostgres persists entries in the geocode_cache table.
	BackendPostgres BackendType = "postgres"
)

// Config holds configuration for creating a cache store.
type Config struct {
	Type          BackendType   // Backend to create
	TTL           time.Duration // Entry lifetime (memory and redis backends)
	RedisAddr     string        // Redis server address (redis backend)
	RedisPassword string        // Redis password, may be empty (redis backend)
	DB            Database      // Database handle (postgres backend)
	Logger        *slog.Logger  // Logger for the store
}

// NewStore creates a cache store based on the provided configuration.
// It mirrors the provider factory: instantiation is decoupled from the
// resolver, which only ever sees the Store interface.
func NewStore(cfg Config) (Store, error) {
	switch cfg.Type {
	case BackendMemory:
		return NewMemoryStore(cfg.TTL), nil
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis address is required for the %q cache backend", cfg.Type)
		}
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		return NewRedisStore(client, cfg.TTL, cfg.Logger), nil
	case BackendPostgres:
		if cfg.DB == nil {
			return nil, fmt.Errorf("database handle is required for the %q cache backend", cfg.Type)
		}
		return NewPostgresStore(cfg.DB, cfg.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Type)
	}
}
