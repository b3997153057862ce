// Package server wires the HTTP surface of the map service: the map
// items endpoint, the payment webhook relay, health checks and metrics.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leiloom/map-service/internal/enrich"
	"github.com/leiloom/map-service/internal/mapview"
	"github.com/leiloom/map-service/internal/models"
	"github.com/leiloom/map-service/internal/webhook"
)

// AuctionLister fetches the auction tree the map feeds on. The leiloom
// client satisfies it.
type AuctionLister interface {
	ListAuctions(ctx context.Context) ([]models.Auction, error)
}

// Enricher attaches coordinates to flattened items. The enrichment
// pipeline satisfies it.
type Enricher interface {
	Enrich(ctx context.Context, items []models.GeocodableItem) ([]models.EnrichedItem, error)
}

// Pinger reports backing-store health for the health check. May be nil
// when the configured cache backend has nothing to ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MapHandler serves the enriched map data.
type MapHandler struct {
	log      *slog.Logger
	auctions AuctionLister
	enricher Enricher
	defaults mapview.Defaults
}

// NewMapHandler creates the handler for the map items endpoint.
func NewMapHandler(log *slog.Logger, auctions AuctionLister, enricher Enricher, defaults mapview.Defaults) *MapHandler {
	return &MapHandler{log: log, auctions: auctions, enricher: enricher, defaults: defaults}
}

// GetMapItems handles GET /api/v1/map/items: list auctions, flatten,
// enrich, build the view. Geocoding failures never surface here — they
// only shrink the marker set — so the only error paths are the backend
// listing call and a torn-down request.
func (h *MapHandler) GetMapItems(c *gin.Context) {
	ctx := c.Request.Context()

	auctions, err := h.auctions.ListAuctions(ctx)
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to list auctions", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"message": "failed to load auctions"})
		return
	}

	enriched, err := h.enricher.Enrich(ctx, enrich.Flatten(auctions))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Client went away mid-enrichment; nothing to answer.
			return
		}
		h.log.ErrorContext(ctx, "Enrichment failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to build map data"})
		return
	}

	c.JSON(http.StatusOK, mapview.Build(enriched, h.defaults))
}

// New assembles the gin router.
func New(
	log *slog.Logger,
	reg *prometheus.Registry,
	mapHandler *MapHandler,
	webhookHandler *webhook.Handler,
	pinger Pinger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		if pinger != nil {
			if err := pinger.Ping(c.Request.Context()); err != nil {
				log.ErrorContext(c.Request.Context(), "Health check failed", "error", err)
				c.String(http.StatusServiceUnavailable, "cache store ping failed")
				return
			}
		}
		c.String(http.StatusOK, "OK")
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	api.GET("/map/items", mapHandler.GetMapItems)

	router.Any("/webhook/payments", webhookHandler.Handle)

	return router
}
