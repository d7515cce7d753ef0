package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/platformbuilds/klaxon-core/internal/api/handlers"
	"github.com/platformbuilds/klaxon-core/internal/api/middleware"
	"github.com/platformbuilds/klaxon-core/internal/config"
	"github.com/platformbuilds/klaxon-core/internal/monitoring"
	"github.com/platformbuilds/klaxon-core/internal/services"
	"github.com/platformbuilds/klaxon-core/pkg/cache"
	"github.com/platformbuilds/klaxon-core/pkg/logger"
)

type Server struct {
	config     *config.Config
	logger     logger.Logger
	cache      cache.ValkeyCluster
	catalog    *services.DefinitionsService
	search     *services.SearchService
	renderer   *services.RenderService
	router     *gin.Engine
	httpServer *http.Server
}

func NewServer(
	cfg *config.Config,
	log logger.Logger,
	valkeyCache cache.ValkeyCluster,
	catalog *services.DefinitionsService,
	search *services.SearchService,
	renderer *services.RenderService,
) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	server := &Server{
		config:   cfg,
		logger:   log,
		cache:    valkeyCache,
		catalog:  catalog,
		search:   search,
		renderer: renderer,
		router:   router,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.router.Use(gin.Recovery())

	// CORS for browser clients
	s.router.Use(middleware.CORSMiddleware(s.config.CORS))

	// Request correlation ID, before logging so every line carries one
	s.router.Use(middleware.RequestID())

	// Request logging
	s.router.Use(middleware.RequestLogger(s.logger))

	// Prometheus request metrics
	s.router.Use(middleware.MetricsMiddleware())

	// Rate limiting using Valkey cluster
	s.router.Use(middleware.RateLimiter(s.cache, s.config.RateLimit.RequestsPerMinute))

	// Authentication (can be disabled via config.auth.enabled)
	if s.config.Auth.Enabled {
		s.router.Use(middleware.AuthMiddleware(s.config.Auth))
	} else {
		s.router.Use(middleware.NoAuthMiddleware())
		s.logger.Warn("Authentication is DISABLED by configuration; requests will use anonymous/default context")
	}

	// OpenAPI specification endpoints
	s.router.StaticFile("/api/openapi.yaml", "api/openapi.yaml")
	s.router.GET("/api/openapi.json", handlers.GetOpenAPISpec)

	// Swagger UI via gin-swagger (serves Swagger UI using external openapi.yaml)
	// Visit /swagger/index.html
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/api/openapi.yaml")))

	// Prometheus metrics endpoint
	monitoring.SetupPrometheusMetrics(s.router)
}

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.catalog, s.cache, s.config.Cache.Enabled, s.logger)

	// Public health endpoints
	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/ready", healthHandler.ReadinessCheck)
	s.router.GET("/catalog/status", healthHandler.CatalogStatus)

	// Root redirect to Swagger UI for convenience
	s.router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/swagger/index.html")
	})

	// API v1 group
	v1 := s.router.Group("/api/v1")
	v1.Use(middleware.RequireTenant())

	// Back-compat: expose health under /api/v1 as well
	v1.GET("/health", healthHandler.HealthCheck)
	v1.GET("/ready", healthHandler.ReadinessCheck)

	// Definitions document endpoints (validate/render an uploaded document)
	defsHandler := handlers.NewDefinitionsHandler(s.renderer, s.logger)
	v1.POST("/definitions/validate", defsHandler.Validate)
	v1.POST("/definitions/render/:format", defsHandler.RenderDocument)

	// Catalog read endpoints
	alarmsHandler := handlers.NewAlarmsHandler(s.catalog, s.search, s.logger)
	v1.GET("/alarms", alarmsHandler.List)
	v1.GET("/alarms/search", alarmsHandler.Search)
	v1.GET("/alarms/:name", alarmsHandler.Get)

	// Catalog export (served from the render cache when warm)
	exportHandler := handlers.NewExportHandler(s.catalog, s.renderer, s.logger)
	v1.GET("/export/:format", exportHandler.Export)

	// WebSocket stream of catalog reload events
	if s.config.WebSocket.Enabled {
		eventsHandler := handlers.NewEventsHandler(s.catalog, s.config.WebSocket, s.logger)
		v1.GET("/events/definitions", eventsHandler.HandleDefinitionsStream)
	}
}

func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("KLAXON-CORE REST API server starting", "port", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("Shutting down KLAXON-CORE gracefully")
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Close the search index
	if s.search != nil {
		if err := s.search.Stop(); err != nil {
			s.logger.Error("Failed to close search index", "error", err)
		}
	}

	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler returns the underlying Gin engine so tests (or embedders) can mount it.
func (s *Server) Handler() http.Handler {
	return s.router
}
