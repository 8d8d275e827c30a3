package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadConversions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_conversions_total",
			Help: "Total number of leads converted to customers",
		},
	)

	duplicateChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duplicate_checks_total",
			Help: "Total number of duplicate checks performed",
		},
		[]string{"kind", "found"},
	)

	stageMovesRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stage_moves_rejected_total",
			Help: "Total number of rejected pipeline stage moves",
		},
	)

	rateLimitedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Total number of rate limited requests",
		},
		[]string{"surface"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordConversion() {
	leadConversions.Inc()
}

func RecordDuplicateCheck(kind string, found bool) {
	duplicateChecks.WithLabelValues(kind, strconv.FormatBool(found)).Inc()
}

func RecordStageMoveRejected() {
	stageMovesRejected.Inc()
}

func RecordRateLimited(surface string) {
	rateLimitedRequests.WithLabelValues(surface).Inc()
}
