package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/leiloom/map-service/internal/config"
	"github.com/leiloom/map-service/internal/enrich"
	"github.com/leiloom/map-service/internal/geocache"
	"github.com/leiloom/map-service/internal/geocoding"
	"github.com/leiloom/map-service/internal/leiloom"
	"github.com/leiloom/map-service/internal/mapview"
	"github.com/leiloom/map-service/internal/metrics"
	"github.com/leiloom/map-service/internal/models"
	"github.com/leiloom/map-service/internal/server"
	"github.com/leiloom/map-service/internal/webhook"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	if cfg.Env == envProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create a separate registry for metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Build the geocode cache store. The postgres backend needs its pool
	// created here so the health check can ping it.
	storeCfg := geocache.Config{
		Type:          geocache.BackendType(cfg.CacheBackend),
		TTL:           cfg.CacheTTL,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		Logger:        logger,
	}
	var pinger server.Pinger
	if storeCfg.Type == geocache.BackendPostgres {
		pool, err := geocache.NewDatabase(
			ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer pool.Close()
		storeCfg.DB = pool
		pinger = pool
	}

	cacheStore, err := geocache.NewStore(storeCfg)
	if err != nil {
		log.Fatalf("Failed to create cache store: %v", err)
	}

	logger.InfoContext(ctx, "Geocode cache initialized", "backend", cfg.CacheBackend)

	// Create the geocoding provider using the factory pattern, allowing
	// runtime selection between Nominatim and Google.
	rateLimit := 50
	provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:        geocoding.ProviderType(cfg.ProviderType),
		BaseURL:     cfg.GeocoderBaseURL,
		CountryCode: cfg.CountryCode,
		APIKey:      cfg.ProviderAPIKey,
		RateLimit:   rateLimit / max(cfg.EnrichConcurrency, 1),
		Logger:      logger,
	})
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}

	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.ProviderType)

	// Wire the resolution and enrichment pipeline.
	resolver := geocoding.NewResolver(logger, cacheStore, provider, cfg.ProviderType, appMetrics)
	pipeline := enrich.NewPipeline(logger, resolver, appMetrics, cfg.CountryName, cfg.EnrichConcurrency)

	// External collaborators: the internal backend and the payment gateway.
	backend := leiloom.NewClient(cfg.BackendBaseURL, logger)
	gateway := webhook.NewGatewayClient(cfg.GatewayBaseURL, cfg.GatewayToken, logger)

	defaults := mapview.Defaults{
		Center: models.Coordinate{Lat: cfg.DefaultCenterLat, Lng: cfg.DefaultCenterLng},
		Zoom:   cfg.DefaultZoom,
	}
	mapHandler := server.NewMapHandler(logger, backend, pipeline, defaults)
	webhookHandler := webhook.NewHandler(logger, gateway, backend, appMetrics)

	router := server.New(logger, reg, mapHandler, webhookHandler, pinger)

	readTimeout := 5
	writeTimeout := 30
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	// Start the HTTP server in a goroutine to allow main to listen for signals.
	go func() {
		logger.InfoContext(ctx, "Starting HTTP server", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "HTTP server failed", "error", err)
			stop()
		}
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownTimeout := 10
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownTimeout)*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(ctx, "Failed to shut down HTTP server gracefully", "error", err)
	}

	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envLocal:
		logger = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelWarn,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelError,
			}),
		)

		logger.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return logger
}
