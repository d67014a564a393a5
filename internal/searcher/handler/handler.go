// Package handler exposes the search service over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/karthikg/litesearch/internal/analytics"
	"github.com/karthikg/litesearch/internal/analytics/collector"
	"github.com/karthikg/litesearch/internal/indexer/index"
	"github.com/karthikg/litesearch/internal/indexer/keyword"
	"github.com/karthikg/litesearch/internal/searcher/cache"
	"github.com/karthikg/litesearch/internal/searcher/executor"
	"github.com/karthikg/litesearch/internal/searcher/parser"
	apperrors "github.com/karthikg/litesearch/pkg/errors"
	"github.com/karthikg/litesearch/pkg/logger"
	"github.com/karthikg/litesearch/pkg/metrics"
	"github.com/karthikg/litesearch/pkg/middleware"
)

// SearchResponse is the JSON body of a successful query.
type SearchResponse struct {
	Query     string   `json:"query"`
	Kw1       string   `json:"kw1"`
	Kw2       string   `json:"kw2,omitempty"`
	Documents []string `json:"documents"`
	Count     int      `json:"count"`
}

// KeywordResponse is the JSON body of a keyword lookup.
type KeywordResponse struct {
	Keyword     string             `json:"keyword"`
	Occurrences []index.Occurrence `json:"occurrences"`
}

// StatsResponse aggregates index and cache statistics.
type StatsResponse struct {
	Documents   int   `json:"documents"`
	Keywords    int   `json:"keywords"`
	NoiseWords  int   `json:"noise_words"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
}

// Handler serves the search API. Cache, collector, and metrics are
// optional; nil disables them.
type Handler struct {
	index     *index.Index
	executor  *executor.Executor
	norm      *keyword.Normalizer
	cache     *cache.QueryCache
	collector *collector.BatchCollector
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a Handler.
func New(
	ix *index.Index,
	exec *executor.Executor,
	norm *keyword.Normalizer,
	queryCache *cache.QueryCache,
	coll *collector.BatchCollector,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		index:     ix,
		executor:  exec,
		norm:      norm,
		cache:     queryCache,
		collector: coll,
		metrics:   m,
		logger:    slog.Default().With("component", "search-handler"),
	}
}

// Search handles GET /api/v1/search?q=kw1+kw2.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	rawQuery := r.URL.Query().Get("q")
	if rawQuery == "" {
		h.countQuery("invalid")
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	query, err := parser.Parse(rawQuery, h.norm)
	if err != nil {
		h.countQuery("invalid")
		h.writeError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}

	var docs []string
	cacheHit := false
	if h.cache != nil {
		docs, cacheHit, err = h.cache.GetOrCompute(ctx, query.Kw1, query.Kw2, func() ([]string, error) {
			return h.executor.TopFive(query.Kw1, query.Kw2)
		})
	} else {
		docs, err = h.executor.TopFive(query.Kw1, query.Kw2)
	}

	latency := time.Since(start)
	h.trackQuery(ctx, query, docs, err, latency, cacheHit)

	if err != nil {
		if errors.Is(err, apperrors.ErrNoMatch) {
			h.countQuery("no_match")
			h.observeLatency(latency, cacheHit)
			h.writeError(w, http.StatusNotFound, "no matching documents")
			return
		}
		h.countQuery("error")
		log.Error("query execution failed", "query", rawQuery, "error", err)
		h.writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	h.countQuery("match")
	h.observeLatency(latency, cacheHit)
	if h.metrics != nil {
		h.metrics.QueryResultsCount.Observe(float64(len(docs)))
	}
	log.Info("query completed",
		"query", rawQuery,
		"kw1", query.Kw1,
		"kw2", query.Kw2,
		"returned", len(docs),
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)

	h.writeJSON(w, http.StatusOK, SearchResponse{
		Query:     rawQuery,
		Kw1:       query.Kw1,
		Kw2:       query.Kw2,
		Documents: docs,
		Count:     len(docs),
	})
}

// Keyword handles GET /api/v1/keywords/{keyword}, returning the keyword's
// full occurrence list.
func (h *Handler) Keyword(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("keyword")
	kw, ok := h.norm.Normalize(raw)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "not an indexable keyword")
		return
	}
	occs := h.index.Lookup(kw)
	if len(occs) == 0 {
		h.writeError(w, http.StatusNotFound, "keyword not indexed")
		return
	}
	h.writeJSON(w, http.StatusOK, KeywordResponse{
		Keyword:     kw,
		Occurrences: occs,
	})
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		Documents:  h.index.DocCount(),
		Keywords:   h.index.KeywordCount(),
		NoiseWords: h.norm.NoiseWordCount(),
	}
	if h.cache != nil {
		resp.CacheHits, resp.CacheMisses = h.cache.Stats()
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// InvalidateCache handles POST /api/v1/cache/invalidate.
func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusNotFound, "query cache not enabled")
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) trackQuery(
	ctx context.Context,
	query *parser.Query,
	docs []string,
	err error,
	latency time.Duration,
	cacheHit bool,
) {
	if h.collector == nil {
		return
	}
	event := analytics.QueryEvent{
		Type:      analytics.EventQuery,
		Kw1:       query.Kw1,
		Kw2:       query.Kw2,
		Matched:   err == nil,
		Returned:  len(docs),
		LatencyMs: latency.Milliseconds(),
		CacheHit:  cacheHit,
		Timestamp: time.Now().UTC(),
		RequestID: middleware.GetRequestID(ctx),
	}
	if errors.Is(err, apperrors.ErrNoMatch) {
		event.Type = analytics.EventNoMatch
	}
	h.collector.Track(query.Kw1, event)
}

func (h *Handler) countQuery(resultType string) {
	if h.metrics != nil {
		h.metrics.QueriesTotal.WithLabelValues(resultType).Inc()
	}
}

func (h *Handler) observeLatency(latency time.Duration, cacheHit bool) {
	if h.metrics == nil {
		return
	}
	status := "miss"
	if h.cache == nil {
		status = "none"
	} else if cacheHit {
		status = "hit"
	}
	h.metrics.QueryLatency.WithLabelValues(status).Observe(latency.Seconds())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("writing response failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
