// ================================
// internal/api/middleware/metrics.middleware.go - Request metrics collection
// ================================

package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/klaxon-core/internal/monitoring"
)

// MetricsMiddleware collects HTTP request metrics for KLAXON-CORE monitoring
func MetricsMiddleware() gin.HandlerFunc {
	return monitoring.HTTPMetricsMiddleware()
}
