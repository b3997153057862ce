package geocache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leiloom/map-service/internal/models"
)

// RedisStore shares geocoded coordinates across service instances.
// Values are stored as JSON so the entries stay inspectable with
// standard Redis tooling.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
	log    *slog.Logger
}

// NewRedisStore creates a Redis-backed store. A non-positive ttl means
// entries never expire.
func NewRedisStore(client redis.Cmdable, ttl time.Duration, log *slog.Logger) *RedisStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{client: client, ttl: ttl, log: log}
}

// Get returns the cached coordinate for key, if present. A missing key
// is not an error.
func (r *RedisStore) Get(ctx context.Context, key string) (models.Coordinate, bool, error) {
	payload, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Coordinate{}, false, nil
	}
	if err != nil {
		return models.Coordinate{}, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var coords models.Coordinate
	if err = json.Unmarshal(payload, &coords); err != nil {
		// A corrupt entry is treated as a miss so the resolver re-geocodes
		// and overwrites it.
		r.log.WarnContext(ctx, "Discarding malformed cache entry", "key", key, "error", err)
		return models.Coordinate{}, false, nil
	}

	return coords, true, nil
}

// Set stores the coordinate under key, overwriting any previous value.
func (r *RedisStore) Set(ctx context.Context, key string, coords models.Coordinate) error {
	payload, err := json.Marshal(coords)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err = r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	return nil
}
