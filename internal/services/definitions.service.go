package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/platformbuilds/klaxon-core/internal/config"
	"github.com/platformbuilds/klaxon-core/internal/models"
	"github.com/platformbuilds/klaxon-core/internal/monitoring"
	"github.com/platformbuilds/klaxon-core/internal/tracing"
	"github.com/platformbuilds/klaxon-core/internal/utils/fswatcher"
	"github.com/platformbuilds/klaxon-core/pkg/logger"
)

// Catalog event types broadcast to subscribers.
const (
	CatalogEventReloaded     = "reloaded"
	CatalogEventReloadFailed = "reload_failed"
)

// watchDebounce coalesces bursts of file events into one reload.
const watchDebounce = 500 * time.Millisecond

// subscriberBuffer bounds each subscriber channel; slow consumers drop events.
const subscriberBuffer = 8

// CatalogEvent is one catalog lifecycle notification.
type CatalogEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Hash       string    `json:"hash,omitempty"`
	AlarmCount int       `json:"alarm_count"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// SourceStatus is the load state of one configured definitions document.
type SourceStatus struct {
	Path     string    `json:"path"`
	Format   string    `json:"format"`
	Alarms   int       `json:"alarms"`
	Error    string    `json:"error,omitempty"`
	LoadedAt time.Time `json:"loaded_at"`
}

// DefinitionsService owns the validated alarm catalog. Loads swap the whole
// generation behind a read-write mutex; a failed load keeps the previous
// generation intact.
type DefinitionsService struct {
	cfg    config.DefinitionsConfig
	search *SearchService
	logger logger.Logger

	mu      sync.RWMutex
	alarms  []*models.Alarm
	byName  map[string]*models.Alarm
	hash    string
	sources []SourceStatus
	loaded  bool

	subMu       sync.Mutex
	subscribers map[uint64]chan CatalogEvent
	nextSubID   uint64
}

// NewDefinitionsService creates the catalog service. search may be nil when
// the search index is disabled.
func NewDefinitionsService(cfg config.DefinitionsConfig, search *SearchService, log logger.Logger) *DefinitionsService {
	return &DefinitionsService{
		cfg:         cfg,
		search:      search,
		logger:      log,
		byName:      make(map[string]*models.Alarm),
		subscribers: make(map[uint64]chan CatalogEvent),
	}
}

// Load reads every configured source document, validates it and swaps the
// catalog. Any source failure aborts the whole reload and the previous
// catalog stays live.
func (s *DefinitionsService) Load(ctx context.Context) error {
	start := time.Now()

	var span trace.Span
	if tracer := tracing.GetGlobalTracer(); tracer != nil {
		ctx, span = tracer.StartReloadSpan(ctx, len(s.cfg.Paths))
		defer span.End()
	}

	hasher := sha256.New()
	var alarms []*models.Alarm
	sources := make([]SourceStatus, 0, len(s.cfg.Paths))

	for _, path := range s.cfg.Paths {
		format := models.FormatForPath(path)

		data, err := os.ReadFile(path)
		if err != nil {
			return s.failLoad(start, span, sources, path, string(format), err)
		}

		parsed, err := models.ParseDefinitions(data, format)
		if err != nil {
			return s.failLoad(start, span, sources, path, string(format), err)
		}

		hasher.Write(data)
		alarms = append(alarms, parsed...)
		sources = append(sources, SourceStatus{
			Path:     path,
			Format:   string(format),
			Alarms:   len(parsed),
			LoadedAt: time.Now().UTC(),
		})
	}

	hash := hex.EncodeToString(hasher.Sum(nil))

	byName := make(map[string]*models.Alarm, len(alarms))
	byIndex := make(map[int]string, len(alarms))
	for _, a := range alarms {
		if prev, ok := byIndex[a.Index]; ok {
			s.logger.Warn("duplicate alarm index across sources",
				"index", a.Index, "alarm", a.Name, "previous", prev)
		}
		byIndex[a.Index] = a.Name
		byName[a.Name] = a
	}

	s.mu.Lock()
	s.alarms = alarms
	s.byName = byName
	s.hash = hash
	s.sources = sources
	s.loaded = true
	s.mu.Unlock()

	if s.search != nil {
		if err := s.search.Reindex(ctx, alarms); err != nil {
			s.logger.Error("search reindex failed", "error", err)
		}
	}

	duration := time.Since(start)
	monitoring.RecordCatalogReload(len(alarms), duration, true)
	if tracer := tracing.GetGlobalTracer(); tracer != nil && span != nil {
		tracer.RecordReloadMetrics(span, duration, len(alarms), true)
	}

	s.logger.Info("definitions catalog loaded",
		"alarms", len(alarms), "sources", len(s.cfg.Paths), "hash", shortHash(hash))

	s.broadcast(CatalogEvent{
		Type:       CatalogEventReloaded,
		Hash:       hash,
		AlarmCount: len(alarms),
		Timestamp:  time.Now().UTC(),
	})

	return nil
}

// failLoad records a failed reload without touching the live catalog.
func (s *DefinitionsService) failLoad(start time.Time, span trace.Span, sources []SourceStatus, path, format string, cause error) error {
	err := fmt.Errorf("load %s: %w", path, cause)

	sources = append(sources, SourceStatus{
		Path:     path,
		Format:   format,
		Error:    cause.Error(),
		LoadedAt: time.Now().UTC(),
	})
	s.mu.Lock()
	s.sources = sources
	s.mu.Unlock()

	monitoring.RecordCatalogReload(0, time.Since(start), false)
	if tracer := tracing.GetGlobalTracer(); tracer != nil && span != nil {
		tracer.RecordError(span, cause)
	}

	s.logger.Error("definitions catalog reload failed", "source", path, "error", cause)

	s.broadcast(CatalogEvent{
		Type:       CatalogEventReloadFailed,
		AlarmCount: s.AlarmCount(),
		Error:      err.Error(),
		Timestamp:  time.Now().UTC(),
	})

	return err
}

// Alarms returns the current catalog generation in load order.
func (s *DefinitionsService) Alarms() []*models.Alarm {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Alarm, len(s.alarms))
	copy(out, s.alarms)
	return out
}

// Alarm returns one alarm by name.
func (s *DefinitionsService) Alarm(name string) (*models.Alarm, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byName[name]
	return a, ok
}

// Hash returns the content hash of the current catalog generation, or ""
// before the first successful load.
func (s *DefinitionsService) Hash() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hash
}

// AlarmCount returns the number of alarms in the current generation.
func (s *DefinitionsService) AlarmCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.alarms)
}

// Loaded reports whether at least one load has succeeded.
func (s *DefinitionsService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Sources returns the per-document status of the most recent load attempt.
func (s *DefinitionsService) Sources() []SourceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SourceStatus, len(s.sources))
	copy(out, s.sources)
	return out
}

// Subscribe registers a catalog event channel. The channel is buffered;
// events are dropped rather than block the catalog.
func (s *DefinitionsService) Subscribe() (uint64, <-chan CatalogEvent) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	ch := make(chan CatalogEvent, subscriberBuffer)
	s.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (s *DefinitionsService) Unsubscribe(id uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if ch, ok := s.subscribers[id]; ok {
		delete(s.subscribers, id)
		close(ch)
	}
}

func (s *DefinitionsService) broadcast(ev CatalogEvent) {
	ev.ID = uuid.New().String()

	s.subMu.Lock()
	defer s.subMu.Unlock()

	for id, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			s.logger.Debug("catalog event dropped for slow subscriber", "subscriber", id)
		}
	}
}

// Watch starts the source file watcher when enabled. Watcher failures are
// logged, never fatal.
func (s *DefinitionsService) Watch(ctx context.Context) {
	if !s.cfg.Watch || len(s.cfg.Paths) == 0 {
		return
	}

	go func() {
		err := fswatcher.WatchPaths(ctx, s.cfg.Paths, watchDebounce, func() {
			s.logger.Info("definitions source changed, reloading catalog")
			if err := s.Load(context.Background()); err != nil {
				s.logger.Error("catalog reload after file change failed", "error", err)
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("definitions watcher stopped", "error", err)
		}
	}()
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
