package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recon",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recon",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)

	// ReconciliationOps counts group lifecycle mutations by operation and result.
	ReconciliationOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recon",
			Name:      "reconciliation_operations_total",
			Help:      "Total number of reconciliation group mutations",
		},
		[]string{"operation", "result"},
	)

	// ComputationFallbacks counts malformed numeric fields coerced to zero
	// during document ingestion.
	ComputationFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "recon",
			Name:      "computation_fallbacks_total",
			Help:      "Total number of malformed numeric fields coerced to zero",
		},
	)
)

// ReconOpSucceeded records a successful reconciliation mutation.
func ReconOpSucceeded(operation string) {
	ReconciliationOps.WithLabelValues(operation, "success").Inc()
}

// ReconOpErrored records a failed reconciliation mutation.
func ReconOpErrored(operation string) {
	ReconciliationOps.WithLabelValues(operation, "error").Inc()
}

// Metrics records per-request counters and latency histograms.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, status).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler exposes the Prometheus scrape endpoint.
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
