package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerProvider manages the lifecycle of the OpenTelemetry tracer
type TracerProvider struct {
	tp *sdktrace.TracerProvider
}

// CatalogTracer provides distributed tracing for catalog operations
type CatalogTracer struct {
	tracer trace.Tracer
}

// NewTracerProvider creates a new OpenTelemetry tracer provider
func NewTracerProvider(serviceName, serviceVersion, otlpEndpoint string) (*TracerProvider, error) {
	// Create OTLP exporter
	exporter, err := otlptracegrpc.New(
		context.Background(),
		otlptracegrpc.WithEndpoint(otlpEndpoint),
		otlptracegrpc.WithInsecure(), // TODO: Add TLS configuration
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	// Create resource
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
			semconv.ServiceNamespaceKey.String("klaxon-core"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	// Create tracer provider
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()), // TODO: Configure sampling
	)

	otel.SetTracerProvider(tp)

	return &TracerProvider{tp: tp}, nil
}

// Shutdown gracefully shuts down the tracer provider
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	return tp.tp.Shutdown(ctx)
}

// NewCatalogTracer creates a new catalog tracer
func NewCatalogTracer(serviceName string) *CatalogTracer {
	tracer := otel.Tracer(serviceName)
	return &CatalogTracer{tracer: tracer}
}

// StartReloadSpan starts a span for a catalog reload
func (ct *CatalogTracer) StartReloadSpan(ctx context.Context, sources int) (context.Context, trace.Span) {
	ctx, span := ct.tracer.Start(ctx, "catalog_reload",
		trace.WithAttributes(
			attribute.Int("catalog.sources", sources),
			attribute.String("component", "definitions-catalog"),
		),
	)
	return ctx, span
}

// StartValidationSpan starts a span for a definitions document validation
func (ct *CatalogTracer) StartValidationSpan(ctx context.Context, source, format string) (context.Context, trace.Span) {
	ctx, span := ct.tracer.Start(ctx, "definitions_validate",
		trace.WithAttributes(
			attribute.String("document.source", source),
			attribute.String("document.format", format),
			attribute.String("component", "definition-loader"),
		),
	)
	return ctx, span
}

// StartRenderSpan starts a span for a render operation
func (ct *CatalogTracer) StartRenderSpan(ctx context.Context, format, catalogHash string) (context.Context, trace.Span) {
	ctx, span := ct.tracer.Start(ctx, "catalog_render",
		trace.WithAttributes(
			attribute.String("render.format", format),
			attribute.String("render.catalog_hash", catalogHash),
			attribute.String("component", "render-service"),
		),
	)
	return ctx, span
}

// StartCacheOperationSpan starts a span for cache operations
func (ct *CatalogTracer) StartCacheOperationSpan(ctx context.Context, operation, key string) (context.Context, trace.Span) {
	ctx, span := ct.tracer.Start(ctx, "cache_operation",
		trace.WithAttributes(
			attribute.String("cache.operation", operation),
			attribute.String("cache.key", key),
			attribute.String("component", "cache"),
		),
	)
	return ctx, span
}

// StartSearchSpan starts a span for an alarm search query
func (ct *CatalogTracer) StartSearchSpan(ctx context.Context, query string) (context.Context, trace.Span) {
	ctx, span := ct.tracer.Start(ctx, "alarm_search",
		trace.WithAttributes(
			attribute.String("search.query", query),
			attribute.String("component", "search-service"),
		),
	)
	return ctx, span
}

// RecordReloadMetrics records catalog reload results on a span
func (ct *CatalogTracer) RecordReloadMetrics(span trace.Span, duration time.Duration, alarmCount int, success bool) {
	span.SetAttributes(
		attribute.Int64("catalog.reload_duration_ms", duration.Milliseconds()),
		attribute.Int("catalog.alarms", alarmCount),
		attribute.Bool("catalog.reload_success", success),
	)

	if !success {
		span.SetStatus(codes.Error, "catalog reload failed")
	}
}

// RecordRenderMetrics records render results on a span
func (ct *CatalogTracer) RecordRenderMetrics(span trace.Span, duration time.Duration, artifactBytes int, success bool) {
	span.SetAttributes(
		attribute.Int64("render.duration_ms", duration.Milliseconds()),
		attribute.Int("render.artifact_bytes", artifactBytes),
		attribute.Bool("render.success", success),
	)

	if !success {
		span.SetStatus(codes.Error, "render failed")
	}
}

// RecordCacheMetrics records cache operation metrics on a span
func (ct *CatalogTracer) RecordCacheMetrics(span trace.Span, hit bool, duration time.Duration) {
	span.SetAttributes(
		attribute.Bool("cache.hit", hit),
		attribute.Int64("cache.duration_ms", duration.Milliseconds()),
	)
}

// RecordError records an error on a span
func (ct *CatalogTracer) RecordError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attrs...)
	span.RecordError(err)
}

// Global tracer instance
var globalCatalogTracer *CatalogTracer

// InitGlobalTracer initializes the global catalog tracer
func InitGlobalTracer(serviceName string) {
	globalCatalogTracer = NewCatalogTracer(serviceName)
}

// GetGlobalTracer returns the global catalog tracer
func GetGlobalTracer() *CatalogTracer {
	return globalCatalogTracer
}
