package middleware

import (
	"net/http"
	"time"

	"github.com/Temutjin2k/dispatch-engine/pkg/metrics"
)

// routeLabel returns the matched mux pattern. The mux sets it on the request it
// receives, so Metrics has to wrap the mux directly.
func routeLabel(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return "unmatched"
}

// Metrics records request counts and latency per route pattern.
func (m *Middleware) Metrics(serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			inFlight := metrics.HttpRequestsInFlight.WithLabelValues(serviceName)
			inFlight.Inc()
			defer inFlight.Dec()

			start := time.Now()
			rw := newStatusRecorder(w)
			next.ServeHTTP(rw, r)

			metrics.RecordHTTPMetrics(serviceName, r.Method, routeLabel(r), rw.Status(), time.Since(start))
		})
	}
}
