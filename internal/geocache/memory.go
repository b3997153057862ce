package geocache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/leiloom/map-service/internal/models"
)

// MemoryStore keeps geocoded coordinates in-process. The key space is
// bounded by the distinct addresses seen during one service session, so
// there is no eviction policy beyond the TTL.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates an in-process store. A non-positive ttl means
// entries never expire.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	const cleanupFactor = 2
	return &MemoryStore{cache: gocache.New(ttl, ttl*cleanupFactor)}
}

// Get returns the cached coordinate for key, if present.
func (m *MemoryStore) Get(_ context.Context, key string) (models.Coordinate, bool, error) {
	value, found := m.cache.Get(key)
	if !found {
		return models.Coordinate{}, false, nil
	}
	coords, ok := value.(models.Coordinate)
	if !ok {
		return models.Coordinate{}, false, nil
	}
	return coords, true, nil
}

// Set stores the coordinate under key, overwriting any previous value.
func (m *MemoryStore) Set(_ context.Context, key string, coords models.Coordinate) error {
	m.cache.SetDefault(key, coords)
	return nil
}
