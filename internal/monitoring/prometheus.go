// Package monitoring provides Prometheus metrics for KLAXON-CORE.
//
// Usage:
//
//  1. Setup metrics in your main function:
//     router := gin.New()
//     monitoring.SetupPrometheusMetrics(router)
//
//  2. Add HTTP metrics middleware:
//     router.Use(monitoring.HTTPMetricsMiddleware())
//
//  3. Record domain metrics in services:
//     monitoring.RecordCatalogReload(len(alarms), time.Since(start), true)
//     monitoring.RecordValidation("api", err == nil)
//     monitoring.RecordRender("csv", time.Since(start), true)
//     monitoring.RecordCacheOperation("get", "hit")
//     monitoring.RecordSearchQuery(time.Since(start), true)
//     monitoring.RecordAuthAttempt("jwt", "success")
//
// Available Metrics:
//
// HTTP:
//   - klaxon_core_http_requests_total{method, endpoint, status_code, tenant_id}
//   - klaxon_core_http_request_duration_seconds{method, endpoint, tenant_id}
//   - klaxon_core_active_connections
//
// Catalog:
//   - klaxon_core_catalog_reloads_total{result}
//   - klaxon_core_catalog_reload_duration_seconds
//   - klaxon_core_catalog_alarms
//
// Validation and rendering:
//   - klaxon_core_validations_total{source, result}
//   - klaxon_core_render_operations_total{format, status}
//   - klaxon_core_render_duration_seconds{format}
//
// Cache and search:
//   - klaxon_core_cache_operations_total{operation, result}
//   - klaxon_core_search_queries_total{status}
//   - klaxon_core_search_query_duration_seconds
//
// Authentication and events:
//   - klaxon_core_auth_attempts_total{method, result}
//   - klaxon_core_event_subscribers
//
// Errors and build info:
//   - klaxon_core_errors_total{type, component}
//   - klaxon_core_build_info{version, component, go_version}
package monitoring

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/platformbuilds/klaxon-core/internal/version"
)

var (
	// HTTP request metrics
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "klaxon_core_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code", "tenant_id"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "klaxon_core_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "tenant_id"},
	)

	// Catalog lifecycle metrics
	catalogReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "klaxon_core_catalog_reloads_total",
			Help: "Total number of definition catalog reloads",
		},
		[]string{"result"}, // result: reloaded, reload_failed
	)

	catalogReloadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "klaxon_core_catalog_reload_duration_seconds",
			Help:    "Definition catalog reload duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	catalogAlarms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "klaxon_core_catalog_alarms",
			Help: "Number of alarms in the current catalog",
		},
	)

	// Validation metrics
	validationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "klaxon_core_validations_total",
			Help: "Total number of definition document validations",
		},
		[]string{"source", "result"}, // result: valid, invalid
	)

	// Render metrics
	renderOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "klaxon_core_render_operations_total",
			Help: "Total number of render operations",
		},
		[]string{"format", "status"},
	)

	renderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "klaxon_core_render_duration_seconds",
			Help:    "Render operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format"},
	)

	// Cache metrics
	cacheOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "klaxon_core_cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"}, // result: hit, miss, error
	)

	// Search metrics
	searchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "klaxon_core_search_queries_total",
			Help: "Total number of alarm search queries",
		},
		[]string{"status"},
	)

	searchQueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "klaxon_core_search_query_duration_seconds",
			Help:    "Alarm search query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// Authentication metrics
	authAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "klaxon_core_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"method", "result"}, // result: success, failure
	)

	// Event stream metrics
	eventSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "klaxon_core_event_subscribers",
			Help: "Number of connected catalog event subscribers",
		},
	)

	// Active connections gauge
	activeConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "klaxon_core_active_connections",
			Help: "Number of active connections",
		},
	)

	// Error rate metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "klaxon_core_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type", "component"}, // type: http, catalog, cache, auth, render, search
	)
)

// SetupPrometheusMetrics configures the Prometheus metrics endpoint for KLAXON-CORE
func SetupPrometheusMetrics(router gin.IRoutes) {
	// Register build info (ignore if already registered)
	_ = prometheus.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "klaxon_core_build_info",
		Help: "Build information for KLAXON-CORE",
		ConstLabels: prometheus.Labels{
			"version":    version.Version,
			"component":  "klaxon-core",
			"go_version": "1.24",
		},
	}, func() float64 { return 1 }))

	// Register all metrics (ignore if already registered)
	_ = prometheus.Register(httpRequestsTotal)
	_ = prometheus.Register(httpRequestDuration)
	_ = prometheus.Register(catalogReloadsTotal)
	_ = prometheus.Register(catalogReloadDuration)
	_ = prometheus.Register(catalogAlarms)
	_ = prometheus.Register(validationsTotal)
	_ = prometheus.Register(renderOperationsTotal)
	_ = prometheus.Register(renderDuration)
	_ = prometheus.Register(cacheOperationsTotal)
	_ = prometheus.Register(searchQueriesTotal)
	_ = prometheus.Register(searchQueryDuration)
	_ = prometheus.Register(authAttemptsTotal)
	_ = prometheus.Register(eventSubscribers)
	_ = prometheus.Register(activeConnections)
	_ = prometheus.Register(errorsTotal)

	// Expose metrics endpoint using the default registry
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// HTTPMetricsMiddleware collects HTTP request metrics
func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		endpoint := normalizeEndpoint(c.Request.URL.Path)

		// tenant_id is set by the auth middleware
		tenantID := c.GetString("tenant_id")
		if tenantID == "" {
			tenantID = "unknown"
		}

		activeConnections.Inc()
		defer activeConnections.Dec()

		c.Next()

		statusCode := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		httpRequestsTotal.WithLabelValues(method, endpoint, statusCode, tenantID).Inc()
		httpRequestDuration.WithLabelValues(method, endpoint, tenantID).Observe(duration)

		if c.Writer.Status() >= 400 {
			errorsTotal.WithLabelValues("http", endpoint).Inc()
		}
	}
}

// RecordCatalogReload records the outcome of a definition catalog reload
func RecordCatalogReload(alarmCount int, duration time.Duration, success bool) {
	result := "reloaded"
	if !success {
		result = "reload_failed"
		errorsTotal.WithLabelValues("catalog", "reload").Inc()
	} else {
		catalogAlarms.Set(float64(alarmCount))
	}

	catalogReloadsTotal.WithLabelValues(result).Inc()
	catalogReloadDuration.Observe(duration.Seconds())
}

// RecordValidation records a definition document validation
func RecordValidation(source string, valid bool) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	validationsTotal.WithLabelValues(source, result).Inc()
}

// RecordRender records render operation metrics
func RecordRender(format string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
		errorsTotal.WithLabelValues("render", format).Inc()
	}

	renderOperationsTotal.WithLabelValues(format, status).Inc()
	renderDuration.WithLabelValues(format).Observe(duration.Seconds())
}

// RecordCacheOperation records cache operation metrics
func RecordCacheOperation(operation, result string) {
	cacheOperationsTotal.WithLabelValues(operation, result).Inc()
	if result == "error" {
		errorsTotal.WithLabelValues("cache", operation).Inc()
	}
}

// RecordSearchQuery records alarm search query metrics
func RecordSearchQuery(duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
		errorsTotal.WithLabelValues("search", "query").Inc()
	}

	searchQueriesTotal.WithLabelValues(status).Inc()
	searchQueryDuration.Observe(duration.Seconds())
}

// RecordAuthAttempt records authentication attempt metrics
func RecordAuthAttempt(method, result string) {
	authAttemptsTotal.WithLabelValues(method, result).Inc()
	if result == "failure" {
		errorsTotal.WithLabelValues("auth", method).Inc()
	}
}

// SubscriberConnected tracks a new catalog event subscriber
func SubscriberConnected() {
	eventSubscribers.Inc()
}

// SubscriberDisconnected tracks a departed catalog event subscriber
func SubscriberDisconnected() {
	eventSubscribers.Dec()
}

// normalizeEndpoint normalizes API endpoints for consistent metrics
func normalizeEndpoint(path string) string {
	if len(path) > 0 && path[len(path)-1] != '/' {
		path += "/"
	}

	// Replace numeric segments with :id
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if isNumeric(part) && i > 0 {
			parts[i] = ":id"
		}
	}

	return strings.Join(parts, "/")
}

// isNumeric checks if a string is numeric
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
