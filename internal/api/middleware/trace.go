package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cardwise/cardwise-api/internal/api/shared"
)

// Trace attaches a trace ID to every request's context. It should run
// first in the middleware chain so all downstream logging can correlate.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())

		slog.With(slog.String("trace_id", shared.GetTraceID(ctx))).Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
