// Package httpadapter exposes the document service over HTTP. Identity comes
// from the X-User-Name and X-User-Role headers; every /v1 route except the
// health and metrics endpoints requires them.
package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/transitdocs/doctrack/internal/core/ports"
	"github.com/transitdocs/doctrack/internal/observability/metrics"
)

const serviceName = "api"

type RouterConfig struct {
	RateLimitRPS      float64
	RateLimitBurst    int
	MaxConcurrent     int
	BackpressureWait  time.Duration
	MaxUploadBytes    int64
	DefaultAuditLimit int
}

func (c RouterConfig) normalize() RouterConfig {
	out := c
	if out.RateLimitRPS <= 0 {
		out.RateLimitRPS = 50
	}
	if out.RateLimitBurst <= 0 {
		out.RateLimitBurst = 100
	}
	if out.MaxConcurrent <= 0 {
		out.MaxConcurrent = 64
	}
	if out.BackpressureWait <= 0 {
		out.BackpressureWait = 100 * time.Millisecond
	}
	if out.MaxUploadBytes <= 0 {
		out.MaxUploadBytes = 32 << 20
	}
	if out.DefaultAuditLimit <= 0 {
		out.DefaultAuditLimit = 100
	}
	return out
}

type Router struct {
	ingest   ports.DocumentIngestor
	reader   ports.DocumentReader
	searcher ports.DocumentSearcher
	reporter ports.Reporter
	metrics  *metrics.HTTPServerMetrics
	cfg      RouterConfig
}

func NewRouter(
	ingest ports.DocumentIngestor,
	reader ports.DocumentReader,
	searcher ports.DocumentSearcher,
	reporter ports.Reporter,
	m *metrics.HTTPServerMetrics,
	cfg RouterConfig,
) *Router {
	return &Router{
		ingest:   ingest,
		reader:   reader,
		searcher: searcher,
		reporter: reporter,
		metrics:  m,
		cfg:      cfg.normalize(),
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	api := http.NewServeMux()
	api.HandleFunc("/v1/documents", rt.documents)
	api.HandleFunc("/v1/documents/", rt.documentByID)
	api.HandleFunc("/v1/search", rt.search)
	api.HandleFunc("/v1/statistics", rt.statistics)
	api.HandleFunc("/v1/audit", rt.recentAudit)
	api.HandleFunc("/v1/audit/summary", rt.auditSummary)
	mux.Handle("/v1/", identityMiddleware(api))

	handler := http.Handler(mux)
	handler = backpressureMiddleware(handler, rt.cfg.MaxConcurrent, rt.cfg.BackpressureWait)
	handler = rateLimitMiddleware(handler, rt.cfg.RateLimitRPS, rt.cfg.RateLimitBurst)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) documents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.uploadDocument(w, r)
	case http.MethodGet:
		rt.listDocuments(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
	}
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes)

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("multipart field 'file' is required"))
		return
	}
	defer file.Close()

	fileType := fileTypeOf(fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	job, err := rt.ingest.Upload(r.Context(), fileHeader.Filename, fileType, file)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordUploadAccepted(serviceName, fileType)
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := rt.reader.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs, "count": len(docs)})
}

func (rt *Router) documentByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/documents/")

	if id, ok := strings.CutSuffix(rest, "/archive"); ok {
		rt.archiveDocument(w, r, id)
		return
	}

	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
		return
	}
	if rest == "" || strings.Contains(rest, "/") {
		writeJSON(w, http.StatusBadRequest, errorBody("document id is required"))
		return
	}

	doc, err := rt.reader.Get(r.Context(), rest)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) archiveDocument(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
		return
	}
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, errorBody("document id is required"))
		return
	}

	if err := rt.reader.Archive(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordArchive(serviceName)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "archived", "id": id})
}

func (rt *Router) search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
		return
	}

	query := r.URL.Query().Get("q")
	hits, err := rt.searcher.Search(r.Context(), query)
	if rt.metrics != nil {
		rt.metrics.RecordSearch(serviceName, len(hits), err)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": query, "results": hits, "count": len(hits)})
}

func (rt *Router) statistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
		return
	}

	stats, err := rt.reporter.Statistics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (rt *Router) recentAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
		return
	}

	limit := rt.cfg.DefaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, errorBody("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries, err := rt.reporter.RecentAudit(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordAuditRead(serviceName, "recent")
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
}

func (rt *Router) auditSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
		return
	}

	summary, err := rt.reporter.AuditSummary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordAuditRead(serviceName, "summary")
	}
	writeJSON(w, http.StatusOK, summary)
}

func fileTypeOf(filename, contentType string) string {
	if idx := strings.LastIndex(filename, "."); idx >= 0 && idx < len(filename)-1 {
		return strings.ToLower(filename[idx+1:])
	}
	return contentType
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), errorBody(err.Error()))
}
