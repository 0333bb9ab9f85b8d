package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	uploadsAcceptedTotal *prometheus.CounterVec
	searchRequestsTotal  *prometheus.CounterVec
	searchResultCount    *prometheus.HistogramVec
	archiveTotal         *prometheus.CounterVec
	auditReadsTotal      *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "doctrack",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "doctrack",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "doctrack",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	uploadsAcceptedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "doctrack",
			Subsystem: "ingest",
			Name:      "uploads_accepted_total",
			Help:      "Total uploads accepted for processing.",
		},
		[]string{"service", "file_type"},
	)
	searchRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "doctrack",
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Total search requests by outcome.",
		},
		[]string{"service", "outcome"},
	)
	searchResultCount := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "doctrack",
			Subsystem: "search",
			Name:      "result_count",
			Help:      "Distribution of result counts per search.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service"},
	)
	archiveTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "doctrack",
			Subsystem: "documents",
			Name:      "archive_total",
			Help:      "Total archive operations.",
		},
		[]string{"service"},
	)
	auditReadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "doctrack",
			Subsystem: "audit",
			Name:      "reads_total",
			Help:      "Total audit timeline reads by view.",
		},
		[]string{"service", "view"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		uploadsAcceptedTotal,
		searchRequestsTotal,
		searchResultCount,
		archiveTotal,
		auditReadsTotal,
	)

	return &HTTPServerMetrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		uploadsAcceptedTotal: uploadsAcceptedTotal,
		searchRequestsTotal:  searchRequestsTotal,
		searchResultCount:    searchResultCount,
		archiveTotal:         archiveTotal,
		auditReadsTotal:      auditReadsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/") && strings.HasSuffix(path, "/archive"):
		return "/v1/documents/{document_id}/archive"
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordUploadAccepted(service, fileType string) {
	if fileType == "" {
		fileType = "unknown"
	}
	m.uploadsAcceptedTotal.WithLabelValues(service, fileType).Inc()
}

func (m *HTTPServerMetrics) RecordSearch(service string, resultCount int, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.searchRequestsTotal.WithLabelValues(service, outcome).Inc()
	if err == nil {
		m.searchResultCount.WithLabelValues(service).Observe(float64(resultCount))
	}
}

func (m *HTTPServerMetrics) RecordArchive(service string) {
	m.archiveTotal.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordAuditRead(service, view string) {
	if view == "" {
		view = "unknown"
	}
	m.auditReadsTotal.WithLabelValues(service, view).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
