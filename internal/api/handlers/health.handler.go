package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/klaxon-core/internal/services"
	"github.com/platformbuilds/klaxon-core/internal/version"
	"github.com/platformbuilds/klaxon-core/pkg/cache"
	"github.com/platformbuilds/klaxon-core/pkg/logger"
)

type HealthHandler struct {
	catalog      *services.DefinitionsService
	cache        cache.ValkeyCluster
	cacheEnabled bool
	logger       logger.Logger
}

func NewHealthHandler(catalog *services.DefinitionsService, valkeyCache cache.ValkeyCluster, cacheEnabled bool, logger logger.Logger) *HealthHandler {
	return &HealthHandler{
		catalog:      catalog,
		cache:        valkeyCache,
		cacheEnabled: cacheEnabled,
		logger:       logger,
	}
}

// HealthCheck reports process liveness. It never checks dependencies.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "klaxon-core",
		"version":   version.Version,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// ReadinessCheck reports whether the service can answer catalog requests.
// With caching enabled readiness follows the Valkey cluster; without it the
// check is whether the definitions catalog completed a load.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if h.cacheEnabled {
		if err := h.cache.HealthCheck(ctx); err != nil {
			h.logger.Warn("readiness check failed", "component", "cache", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	} else if !h.catalog.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "definitions catalog not loaded",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// CatalogStatus reports the per-source load state of the definitions catalog.
func (h *HealthHandler) CatalogStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"loaded":  h.catalog.Loaded(),
		"hash":    h.catalog.Hash(),
		"alarms":  h.catalog.AlarmCount(),
		"sources": h.catalog.Sources(),
	})
}
