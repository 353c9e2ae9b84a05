package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gigvora/escrow/internal/infrastructure/metrics"
)

// MetricsMiddleware records per-request counters and latency histograms.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new MetricsMiddleware.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Wrap wraps an http.Handler with metrics recording.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := normalizePath(r.URL.Path)
		m.metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// normalizePath replaces resource identifiers with placeholders so label
// cardinality stays bounded.
//
//	/api/v1/freelancers/f-1/escrow/transactions/t-9/release
//	  -> /api/v1/freelancers/:id/escrow/transactions/:id/release
func normalizePath(path string) string {
	const prefix = "/api/v1/freelancers/"
	if !strings.HasPrefix(path, prefix) {
		return path
	}

	parts := strings.Split(path[len(prefix):], "/")
	if len(parts) == 0 || parts[0] == "" {
		return path
	}
	parts[0] = ":id"

	// parts now looks like [:id escrow <resource> <resourceID> <action>...]
	if len(parts) >= 4 && parts[1] == "escrow" {
		switch parts[2] {
		case "accounts", "transactions", "disputes":
			parts[3] = ":id"
		}
	}

	return prefix + strings.Join(parts, "/")
}
