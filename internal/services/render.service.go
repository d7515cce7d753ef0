package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/platformbuilds/klaxon-core/internal/models"
	"github.com/platformbuilds/klaxon-core/internal/monitoring"
	"github.com/platformbuilds/klaxon-core/internal/render"
	"github.com/platformbuilds/klaxon-core/internal/tracing"
	"github.com/platformbuilds/klaxon-core/pkg/cache"
	"github.com/platformbuilds/klaxon-core/pkg/logger"
)

// RenderService renders the loaded catalog into export artifacts. Catalog
// renders are cached in Valkey keyed by catalog hash and format, so a cache
// entry can never serve stale output for a changed catalog.
type RenderService struct {
	catalog *DefinitionsService
	cache   cache.ValkeyCluster
	ttl     time.Duration
	logger  logger.Logger
}

// NewRenderService creates the render service. cache may be nil, which
// disables artifact caching.
func NewRenderService(catalog *DefinitionsService, valkeyCache cache.ValkeyCluster, ttl time.Duration, log logger.Logger) *RenderService {
	return &RenderService{
		catalog: catalog,
		cache:   valkeyCache,
		ttl:     ttl,
		logger:  log,
	}
}

// Render produces the current catalog in the given format, serving from the
// artifact cache when possible.
func (s *RenderService) Render(ctx context.Context, format render.Format) ([]byte, error) {
	start := time.Now()
	hash := s.catalog.Hash()

	var span trace.Span
	if tracer := tracing.GetGlobalTracer(); tracer != nil {
		ctx, span = tracer.StartRenderSpan(ctx, string(format), hash)
		defer span.End()
	}

	if s.cache != nil && hash != "" {
		if artifact, err := s.cache.GetCachedRenderArtifact(ctx, hash, string(format)); err == nil {
			monitoring.RecordRender(string(format), time.Since(start), true)
			if tracer := tracing.GetGlobalTracer(); tracer != nil && span != nil {
				tracer.RecordCacheMetrics(span, true, time.Since(start))
			}
			s.logger.Debug("render served from cache", "format", format, "hash", shortHash(hash))
			return artifact, nil
		}
	}

	artifact, err := render.Render(format, s.catalog.Alarms())
	if err != nil {
		monitoring.RecordRender(string(format), time.Since(start), false)
		if tracer := tracing.GetGlobalTracer(); tracer != nil && span != nil {
			tracer.RecordError(span, err)
		}
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	if s.cache != nil && hash != "" {
		if err := s.cache.CacheRenderArtifact(ctx, hash, string(format), artifact, s.ttl); err != nil {
			s.logger.Warn("could not cache render artifact", "format", format, "error", err)
		}
	}

	duration := time.Since(start)
	monitoring.RecordRender(string(format), duration, true)
	if tracer := tracing.GetGlobalTracer(); tracer != nil && span != nil {
		tracer.RecordRenderMetrics(span, duration, len(artifact), true)
	}

	return artifact, nil
}

// RenderDocument validates an uploaded definitions document and renders it.
// Uploads never touch the artifact cache.
func (s *RenderService) RenderDocument(ctx context.Context, data []byte, docFormat models.DocumentFormat, format render.Format) ([]byte, error) {
	start := time.Now()

	alarms, err := models.ParseDefinitions(data, docFormat)
	if err != nil {
		return nil, err
	}

	artifact, err := render.Render(format, alarms)
	if err != nil {
		monitoring.RecordRender(string(format), time.Since(start), false)
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	monitoring.RecordRender(string(format), time.Since(start), true)
	return artifact, nil
}
