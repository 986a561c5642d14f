// Package middleware provides the request pipeline stages shared by all
// routes: tracing, authentication, and input validation.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gratitudeapp/gratitude-api/internal/api/shared"
	"github.com/gratitudeapp/gratitude-api/internal/platform/logger"
)

// TraceMiddleware assigns every request a trace ID, exposes it on the
// response, and stores a trace-scoped logger in the context so every
// downstream log line carries the ID.
func TraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			w.Header().Set("X-Trace-ID", traceID)

			log := base.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
