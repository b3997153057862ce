package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leiloom/map-service/internal/address"
	"github.com/leiloom/map-service/internal/geocache"
	"github.com/leiloom/map-service/internal/metrics"
	"github.com/leiloom/map-service/internal/models"
)

// Resolver turns a raw free-text address into a coordinate: cache
// first, then the fallback query ladder against the provider. A
// successful lookup is written back to the cache under the original
// normalized key, never under the variant that happened to match.
//
// Resolve never fails: geocoding is best-effort enrichment, so every
// error degrades to "no coordinate" and is logged, not propagated.
type Resolver struct {
	log          *slog.Logger     // Logger for resolver activity
	cache        geocache.Store   // Session-scoped coordinate cache
	provider     Provider         // Geocoding provider for external lookups
	providerName string           // Provider name for metrics labeling
	metrics      *metrics.Metrics // Metrics for tracking resolution outcomes
}

// NewResolver creates a resolver over the given cache and provider.
func NewResolver(
	log *slog.Logger,
	cache geocache.Store,
	provider Provider,
	providerName string,
	appMetrics *metrics.Metrics,
) *Resolver {
	return &Resolver{
		log:          log,
		cache:        cache,
		provider:     provider,
		providerName: providerName,
		metrics:      appMetrics,
	}
}

// Resolve converts a raw address into a coordinate. The boolean reports
// whether a coordinate was found; false means the caller should treat
// the address as unresolvable and move on.
func (r *Resolver) Resolve(ctx context.Context, rawAddress string) (models.Coordinate, bool) {
	normalized := address.Normalize(rawAddress)
	if normalized == "" {
		return models.Coordinate{}, false
	}

	key := geocache.Key(normalized)

	coords, found, err := r.cache.Get(ctx, key)
	if err != nil {
		// A broken cache read is a miss, not a failure of the resolution.
		r.log.WarnContext(ctx, "Cache read failed, falling through to provider", "key", key, "error", err)
	}
	if found {
		r.metrics.CacheHits.Inc()
		r.metrics.LookupsTotal.WithLabelValues("cache_hit", "none").Inc()
		return coords, true
	}
	r.metrics.CacheMisses.Inc()

	for idx, variant := range address.QueryVariants(normalized) {
		startTime := time.Now()
		result, err := r.provider.Geocode(ctx, variant)
		r.metrics.RequestSeconds.WithLabelValues(r.providerName).Observe(time.Since(startTime).Seconds())

		if err != nil {
			if ctx.Err() != nil {
				// The consuming view was torn down; stop the ladder instead
				// of issuing lookups nobody is waiting for.
				r.log.DebugContext(ctx, "Resolution cancelled", "address", normalized)
				return models.Coordinate{}, false
			}
			if !errors.Is(err, ErrEmptyResponse) {
				r.metrics.ProviderErrors.Inc()
				r.log.ErrorContext(ctx, "Geocoding lookup failed, trying next variant",
					"variant", variant, "error", err)
			}
			continue
		}

		rung := variantLabel(idx)
		if idx > 0 {
			r.log.InfoContext(ctx, "Geocoded using fallback variant",
				"original", normalized, "fallback", variant, "matched_variant", rung)
		}
		r.metrics.LookupsTotal.WithLabelValues("resolved", rung).Inc()

		if err = r.cache.Set(ctx, key, *result); err != nil {
			r.log.WarnContext(ctx, "Failed to write cache entry", "key", key, "error", err)
		}

		return *result, true
	}

	r.metrics.LookupsTotal.WithLabelValues("unresolved", "none").Inc()
	r.log.WarnContext(ctx, "All query variants exhausted", "address", normalized)

	return models.Coordinate{}, false
}

// variantLabel names a ladder rung for logs and metrics.
func variantLabel(idx int) string {
	if idx == 0 {
		return "full"
	}
	return fmt.Sprintf("fallback_%d", idx)
}
