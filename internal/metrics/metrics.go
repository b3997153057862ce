package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	LookupsTotal    *prometheus.CounterVec
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	ProviderErrors  prometheus.Counter
	RequestSeconds  *prometheus.HistogramVec
	InflightLookups prometheus.Gauge
	ItemsEnriched   *prometheus.CounterVec
	EnrichSeconds   prometheus.Histogram
	WebhookEvents   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		LookupsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geocoding_lookups_total",
			Help: "Total number of address resolutions, by outcome and matched ladder variant.",
		}, []string{"outcome", "variant"}),
		CacheHits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geocoding_cache_hits_total",
			Help: "Total number of resolutions served from the geocode cache.",
		}),
		CacheMisses: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geocoding_cache_misses_total",
			Help: "Total number of resolutions that required a provider lookup.",
		}),
		ProviderErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geocoding_provider_api_errors_total",
			Help: "Total number of errors received from the geocoding provider API.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geocoding_provider_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		InflightLookups: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "geocoding_inflight_lookups",
			Help: "Current number of concurrent item lookups in the enrichment pipeline.",
		}),
		ItemsEnriched: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "map_items_enriched_total",
			Help: "Total number of items processed by the enrichment pipeline, by result.",
		}, []string{"result"}),
		EnrichSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "map_enrich_batch_duration_seconds",
			Help:    "Duration of full enrichment batches.",
			Buckets: prometheus.DefBuckets,
		}),
		WebhookEvents: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "payment_webhook_events_total",
			Help: "Total number of payment gateway notifications handled, by outcome.",
		}, []string{"outcome"}),
	}
}
