package middleware

import (
	"net/http"
	"time"
)

// Logging writes one entry per request. Server errors are logged at warn level.
func (a *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newStatusRecorder(w)

		next.ServeHTTP(rw, r)

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.Status(),
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
		}
		if rw.Status() >= http.StatusInternalServerError {
			a.log.Warn(r.Context(), "request failed", args...)
			return
		}
		a.log.Debug(r.Context(), "request completed", args...)
	})
}
