package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.opentelemetry.io/otel/trace"

	"github.com/platformbuilds/klaxon-core/internal/config"
	"github.com/platformbuilds/klaxon-core/internal/models"
	"github.com/platformbuilds/klaxon-core/internal/monitoring"
	"github.com/platformbuilds/klaxon-core/internal/tracing"
	luceneutil "github.com/platformbuilds/klaxon-core/internal/utils/lucene"
	"github.com/platformbuilds/klaxon-core/pkg/logger"
)

// defaultMaxResults caps search hits when the configuration does not.
const defaultMaxResults = 50

// AlarmSearchResult is one search hit.
type AlarmSearchResult struct {
	Name       string   `json:"name"`
	Index      int      `json:"index"`
	Cause      string   `json:"cause"`
	Severities []string `json:"severities"`
	Score      float64  `json:"score"`
}

// AlarmSearchResponse is the result set of one catalog query.
type AlarmSearchResponse struct {
	Query   string              `json:"query"`
	Total   uint64              `json:"total"`
	TookMs  int64               `json:"took_ms"`
	Results []AlarmSearchResult `json:"results"`
}

// SearchService maintains a Bleve index over the alarm catalog. The index is
// rebuilt from scratch on every catalog reload and swapped in whole.
type SearchService struct {
	indexPath  string
	maxResults int
	logger     logger.Logger

	mu         sync.RWMutex
	index      bleve.Index
	livePath   string
	generation uint64
}

// NewSearchService creates the search service. An empty index path selects
// an in-memory index.
func NewSearchService(cfg config.SearchConfig, log logger.Logger) *SearchService {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &SearchService{
		indexPath:  cfg.IndexPath,
		maxResults: maxResults,
		logger:     log,
	}
}

// Reindex builds a fresh index over the given catalog generation and swaps
// it in. The previous index is closed and, when on disk, removed.
func (s *SearchService) Reindex(ctx context.Context, alarms []*models.Alarm) error {
	newIndex, path, err := s.buildIndex(alarms)
	if err != nil {
		return err
	}

	s.mu.Lock()
	old, oldPath := s.index, s.livePath
	s.index = newIndex
	s.livePath = path
	if old != nil {
		if cerr := old.Close(); cerr != nil {
			s.logger.Error("error closing previous search index", "error", cerr)
		}
		if oldPath != "" {
			if rerr := os.RemoveAll(oldPath); rerr != nil {
				s.logger.Warn("could not remove previous search index", "path", oldPath, "error", rerr)
			}
		}
	}
	s.mu.Unlock()

	s.logger.Info("search index rebuilt", "alarms", len(alarms), "path", pathOrMemory(path))
	return nil
}

// buildIndex creates and populates an index for one catalog generation.
func (s *SearchService) buildIndex(alarms []*models.Alarm) (bleve.Index, string, error) {
	indexMapping := bleve.NewIndexMapping()

	var (
		idx  bleve.Index
		path string
		err  error
	)
	if s.indexPath == "" {
		idx, err = bleve.NewMemOnly(indexMapping)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create search index: %w", err)
		}
	} else {
		if err := os.MkdirAll(s.indexPath, 0755); err != nil {
			return nil, "", fmt.Errorf("failed to create search data path: %w", err)
		}
		s.mu.Lock()
		s.generation++
		path = filepath.Join(s.indexPath, fmt.Sprintf("alarms-%d.bleve", s.generation))
		s.mu.Unlock()

		// A crashed process can leave a directory with this name behind.
		if err := os.RemoveAll(path); err != nil {
			return nil, "", fmt.Errorf("failed to clear stale search index: %w", err)
		}
		idx, err = bleve.New(path, indexMapping)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create search index: %w", err)
		}
	}

	batch := idx.NewBatch()
	for _, a := range alarms {
		if err := batch.Index(a.Name, alarmSearchDoc(a)); err != nil {
			idx.Close()
			return nil, "", fmt.Errorf("failed to add alarm %s to batch: %w", a.Name, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return nil, "", fmt.Errorf("failed to index catalog: %w", err)
	}

	return idx, path, nil
}

// alarmSearchDoc flattens one alarm into its indexable document. Numeric
// fields are float64 so range queries work.
func alarmSearchDoc(a *models.Alarm) map[string]interface{} {
	severities := make([]string, 0, len(a.Levels))
	ituCodes := make([]float64, 0, len(a.Levels))
	var descriptions, details, effects, actions []string
	for _, l := range a.Levels {
		severities = append(severities, string(l.Severity))
		ituCodes = append(ituCodes, float64(l.ITUCode))
		descriptions = append(descriptions, l.Description)
		details = append(details, l.Details)
		effects = append(effects, l.Effect)
		actions = append(actions, l.Action)
	}

	return map[string]interface{}{
		"name":        a.Name,
		"index":       float64(a.Index),
		"cause":       a.CauseText,
		"severity":    severities,
		"itu_code":    ituCodes,
		"description": strings.Join(descriptions, " "),
		"details":     strings.Join(details, " "),
		"effect":      strings.Join(effects, " "),
		"action":      strings.Join(actions, " "),
	}
}

// Search runs one query against the current index. Lucene-looking queries
// are translated into native Bleve queries; everything else goes through
// Bleve's query string syntax.
func (s *SearchService) Search(ctx context.Context, q string, limit int) (*AlarmSearchResponse, error) {
	start := time.Now()

	var span trace.Span
	if tracer := tracing.GetGlobalTracer(); tracer != nil {
		ctx, span = tracer.StartSearchSpan(ctx, q)
		defer span.End()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index == nil {
		return nil, fmt.Errorf("search index not initialized")
	}

	if limit <= 0 || limit > s.maxResults {
		limit = s.maxResults
	}

	var bq query.Query
	if luceneutil.IsLikelyLucene(q) {
		if translated, ok := luceneutil.Translate(q); ok {
			bq = translated
		} else {
			s.logger.Debug("lucene translation failed, using query string syntax", "query", q)
		}
	}
	if bq == nil {
		bq = query.NewQueryStringQuery(q)
	}

	searchRequest := bleve.NewSearchRequestOptions(bq, limit, 0, false)
	searchRequest.Fields = []string{"name", "index", "cause", "severity"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		monitoring.RecordSearchQuery(time.Since(start), false)
		if tracer := tracing.GetGlobalTracer(); tracer != nil && span != nil {
			tracer.RecordError(span, err)
		}
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]AlarmSearchResult, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		r := AlarmSearchResult{
			Name:  hit.ID,
			Score: hit.Score,
		}
		if v, ok := hit.Fields["index"].(float64); ok {
			r.Index = int(v)
		}
		if v, ok := hit.Fields["cause"].(string); ok {
			r.Cause = v
		}
		r.Severities = stringValues(hit.Fields["severity"])
		results = append(results, r)
	}

	monitoring.RecordSearchQuery(time.Since(start), true)

	return &AlarmSearchResponse{
		Query:   q,
		Total:   searchResult.Total,
		TookMs:  time.Since(start).Milliseconds(),
		Results: results,
	}, nil
}

// HealthCheck verifies the index is initialized and readable.
func (s *SearchService) HealthCheck(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index == nil {
		return fmt.Errorf("search index not initialized")
	}
	if _, err := s.index.DocCount(); err != nil {
		return fmt.Errorf("search index health check failed: %w", err)
	}
	return nil
}

// DocCount returns the number of indexed alarms.
func (s *SearchService) DocCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index == nil {
		return 0
	}
	count, err := s.index.DocCount()
	if err != nil {
		return 0
	}
	return count
}

// Stop closes the live index.
func (s *SearchService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	return err
}

// stringValues normalizes a stored field that may be a single string or an
// array of values.
func stringValues(v interface{}) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []string:
		return val
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func pathOrMemory(path string) string {
	if path == "" {
		return "memory"
	}
	return path
}
