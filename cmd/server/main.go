package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/platformbuilds/klaxon-core/internal/api"
	"github.com/platformbuilds/klaxon-core/internal/config"
	"github.com/platformbuilds/klaxon-core/internal/services"
	"github.com/platformbuilds/klaxon-core/internal/tracing"
	"github.com/platformbuilds/klaxon-core/internal/version"
	"github.com/platformbuilds/klaxon-core/pkg/cache"
	"github.com/platformbuilds/klaxon-core/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)
	logger.Info("Starting KLAXON-CORE", "version", version.Version, "environment", cfg.Environment)

	// OpenTelemetry tracing (optional)
	if cfg.Monitoring.TracingEnabled {
		tp, err := tracing.NewTracerProvider("klaxon-core", version.Version, cfg.Monitoring.OTLPEndpoint)
		if err != nil {
			logger.Warn("Tracing disabled: provider initialization failed", "error", err)
		} else {
			tracing.InitGlobalTracer("klaxon-core")
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(shutdownCtx); err != nil {
					logger.Error("Tracer shutdown failed", "error", err)
				}
			}()
			logger.Info("OpenTelemetry tracing initialized", "endpoint", cfg.Monitoring.OTLPEndpoint)
		}
	}

	// Valkey caching for render artifacts and rate limiting. The noop
	// fallback keeps both degraded but functional when no node answers.
	ttl := time.Duration(cfg.Cache.TTL) * time.Second
	valkeyCache := cache.NewNoopValkeyCache(logger)
	if cfg.Cache.Enabled {
		if len(cfg.Cache.Nodes) > 1 {
			valkeyCache = cache.NewAutoSwapForCluster(cfg.Cache.Nodes, ttl, logger, valkeyCache)
		} else if len(cfg.Cache.Nodes) == 1 {
			valkeyCache = cache.NewAutoSwapForSingle(cfg.Cache.Nodes[0], cfg.Cache.DB, cfg.Cache.Password, ttl, logger, valkeyCache)
		}
		logger.Info("Valkey cache initialized", "nodes", len(cfg.Cache.Nodes))
	}

	// Bleve search index over the loaded catalog (optional)
	var search *services.SearchService
	if cfg.Search.Enabled {
		search = services.NewSearchService(cfg.Search, logger)
	}

	// Definitions catalog
	catalog := services.NewDefinitionsService(cfg.Definitions, search, logger)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A failed initial load is fatal unless the watcher can recover it;
	// readiness stays down until a source change loads cleanly.
	if err := catalog.Load(ctx); err != nil {
		if !cfg.Definitions.Watch {
			logger.Fatal("Failed to load definitions catalog", "error", err)
		}
		logger.Error("Definitions catalog load failed; waiting for source changes", "error", err)
	}
	catalog.Watch(ctx)

	renderer := services.NewRenderService(catalog, valkeyCache, ttl, logger)

	// Initialize API server
	apiServer := api.NewServer(cfg, logger, valkeyCache, catalog, search, renderer)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("Shutdown signal received")
		cancel()
	}()

	// Start server
	if err := apiServer.Start(ctx); err != nil {
		logger.Fatal("Server failed to start", "error", err)
	}

	logger.Info("KLAXON-CORE shutdown complete")
}
