package handler

import (
	"net/http"
	"time"

	"github.com/karthikg/litesearch/pkg/health"
	"github.com/karthikg/litesearch/pkg/metrics"
	"github.com/karthikg/litesearch/pkg/middleware"
)

// NewRouter wires the search API routes and middleware chain.
//
// Route table:
//
//	GET  /api/v1/search                → top-5 two-keyword query
//	GET  /api/v1/keywords/{keyword}    → occurrence list for one keyword
//	GET  /api/v1/stats                 → index and cache statistics
//	POST /api/v1/cache/invalidate      → flush the query cache
//	GET  /health                       → aggregate dependency health
//	GET  /health/live                  → liveness probe
//
// Middleware chain (outermost first): RequestID → Metrics → Timeout.
func NewRouter(h *Handler, checker *health.Checker, m *metrics.Metrics, requestTimeout time.Duration) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/keywords/{keyword}", h.Keyword)
	mux.HandleFunc("GET /api/v1/stats", h.Stats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.InvalidateCache)

	mux.HandleFunc("GET /health", checker.ReadyHandler())
	mux.HandleFunc("GET /health/live", checker.LiveHandler())

	var chain http.Handler = mux
	if requestTimeout > 0 {
		chain = middleware.Timeout(requestTimeout)(chain)
	}
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.RequestID(chain)
	return chain
}
