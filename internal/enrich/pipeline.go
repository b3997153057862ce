// Package enrich flattens the backend's nested auction collections and
// attaches a coordinate to every item it can place on the map. Items it
// cannot place are dropped silently; a missing coordinate is never an
// error for the consumer.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/leiloom/map-service/internal/address"
	"github.com/leiloom/map-service/internal/metrics"
	"github.com/leiloom/map-service/internal/models"
)

// Resolver converts a raw address into a coordinate, best-effort.
type Resolver interface {
	Resolve(ctx context.Context, rawAddress string) (models.Coordinate, bool)
}

// Pipeline attaches coordinates to geocodable items. Lookups run
// concurrently, bounded by a weighted semaphore so a large auction
// cannot flood the geocoding endpoint.
type Pipeline struct {
	log           *slog.Logger     // Logger for pipeline activity
	resolver      Resolver         // Address resolver for items without direct coordinates
	metrics       *metrics.Metrics // Metrics for tracking enrichment outcomes
	country       string           // Country appended to every postal address query
	maxConcurrent int64            // Cap on simultaneous lookups
}

// NewPipeline creates an enrichment pipeline. maxConcurrent caps the
// number of simultaneous resolver calls; values below one fall back to
// the default of 8.
func NewPipeline(
	log *slog.Logger,
	resolver Resolver,
	appMetrics *metrics.Metrics,
	country string,
	maxConcurrent int,
) *Pipeline {
	const defaultConcurrency = 8
	if maxConcurrent < 1 {
		maxConcurrent = defaultConcurrency
	}
	return &Pipeline{
		log:           log,
		resolver:      resolver,
		metrics:       appMetrics,
		country:       country,
		maxConcurrent: int64(maxConcurrent),
	}
}

// Flatten walks the auction → lot → item nesting and produces the flat
// list the pipeline works on, denormalizing the owning auction's name
// onto every item.
func Flatten(auctions []models.Auction) []models.GeocodableItem {
	var items []models.GeocodableItem
	for _, auction := range auctions {
		for _, lot := range auction.Lots {
			for _, item := range lot.Items {
				items = append(items, models.GeocodableItem{
					ID:          item.ID,
					Title:       item.Title,
					BasePrice:   item.BasePrice,
					Category:    item.Category,
					AuctionName: auction.Name,
					Location:    item.Location,
					City:        item.City,
					State:       item.State,
					Lat:         item.Lat,
					Lng:         item.Lng,
				})
			}
		}
	}
	return items
}

// Enrich resolves a coordinate for every item, concurrently and
// independently: one slow or failed lookup never blocks or fails the
// others. Items that end up without a valid coordinate are excluded
// from the result. Output order is not guaranteed; output length is at
// most the input length and every returned coordinate is valid.
//
// The only error Enrich returns is the context's, when the consuming
// view is torn down mid-flight and outstanding lookups are cancelled.
func (p *Pipeline) Enrich(ctx context.Context, items []models.GeocodableItem) ([]models.EnrichedItem, error) {
	startTime := time.Now()
	defer func() {
		p.metrics.EnrichSeconds.Observe(time.Since(startTime).Seconds())
	}()

	enriched := make([]models.EnrichedItem, 0, len(items))
	if len(items) == 0 {
		return enriched, nil
	}

	var mu sync.Mutex
	sem := semaphore.NewWeighted(p.maxConcurrent)
	group, groupCtx := errgroup.WithContext(ctx)

	for _, item := range items {
		group.Go(func() error {
			if err := sem.Acquire(groupCtx, 1); err != nil {
				return fmt.Errorf("enrichment cancelled: %w", err)
			}
			defer sem.Release(1)

			coords, ok := p.locate(groupCtx, item)
			if !ok {
				return nil
			}

			mu.Lock()
			enriched = append(enriched, models.EnrichedItem{GeocodableItem: item, Coords: coords})
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	p.log.DebugContext(ctx, "Enrichment batch finished",
		"items", len(items), "resolved", len(enriched))

	return enriched, nil
}

// locate decides where a single item belongs on the map. Direct
// coordinate data always wins over geocoding.
func (p *Pipeline) locate(ctx context.Context, item models.GeocodableItem) (models.Coordinate, bool) {
	if item.HasDirectCoordinate() {
		coords := models.Coordinate{Lat: *item.Lat, Lng: *item.Lng}
		if !coords.Valid() {
			p.metrics.ItemsEnriched.WithLabelValues("dropped_invalid").Inc()
			p.log.WarnContext(ctx, "Item carries an out-of-range coordinate",
				"item", item.ID, "lat", coords.Lat, "lng", coords.Lng)
			return models.Coordinate{}, false
		}
		p.metrics.ItemsEnriched.WithLabelValues("direct").Inc()
		return coords, true
	}

	if !item.Geocodable() {
		p.metrics.ItemsEnriched.WithLabelValues("dropped_no_address").Inc()
		return models.Coordinate{}, false
	}

	postal := address.PostalAddress(item.Location, item.City, item.State, p.country)

	p.metrics.InflightLookups.Inc()
	coords, ok := p.resolver.Resolve(ctx, postal)
	p.metrics.InflightLookups.Dec()

	if !ok {
		p.metrics.ItemsEnriched.WithLabelValues("dropped_unresolved").Inc()
		return models.Coordinate{}, false
	}

	p.metrics.ItemsEnriched.WithLabelValues("geocoded").Inc()
	return coords, true
}
