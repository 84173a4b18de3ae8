package middleware

import (
	"net/http"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
)

// AdminTokenHeader carries the operations desk token.
const AdminTokenHeader = "X-Admin-Token"

// Auth resolves the caller from the Authorization or X-Admin-Token header and
// injects it into the context. Requests without credentials continue as
// anonymous; invalid credentials are rejected with 401.
func (h *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		caller, err := h.auth.Authenticate(ctx, r.Header.Get("Authorization"), r.Header.Get(AdminTokenHeader))
		if err != nil {
			h.log.Warn(ctx, "failed to authenticate caller", "error", err.Error())
			unauthenticated(w, "invalid credentials")
			return
		}

		if caller.Authenticated {
			ctx = wrap.WithCaller(ctx, caller.Actor())
		}
		next.ServeHTTP(w, r.WithContext(models.WithCaller(ctx, caller)))
	})
}

// RequireAuth rejects anonymous callers.
func (h *Middleware) RequireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !models.CallerFromContext(r.Context()).Authenticated {
			unauthenticated(w, "authorization required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
