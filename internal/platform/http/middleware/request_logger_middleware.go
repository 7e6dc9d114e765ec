// Package middleware provides request logging for the mock backend's router.
package middleware

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/MahdiBaghbani/feedclient-go/internal/platform/appctx"
)

// HeaderClientIdentity is read from requests for logging.
const HeaderClientIdentity = "X-Client-Identity"

// RequestLogger attaches a request-scoped logger to the request context.
//
// It must run after chimw.RequestID, which adopts the caller's X-Request-Id,
// so client and backend log lines share one id.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := base.With(
				"request_id", chimw.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path, // path only, no query string
				"client", r.Header.Get(HeaderClientIdentity),
			)

			ctx := appctx.WithLogger(r.Context(), reqLogger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
