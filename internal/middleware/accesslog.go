package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const unmatchedRoute = "unmatched"

type responseRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (rec *responseRecorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *responseRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.size += n
	return n, err
}

func (rec *responseRecorder) code() int {
	if rec.status == 0 {
		return http.StatusOK
	}
	return rec.status
}

// AccessLog writes one line per request. The path is logged as the matched
// chi route pattern, so appointment and service ids never reach the log.
// Requests to quietRoutes (health and readiness) are logged at debug level unless
// they fail.
func AccessLog(log *slog.Logger, quietRoutes ...string) func(http.Handler) http.Handler {
	quiet := make(map[string]bool, len(quietRoutes))
	for _, route := range quietRoutes {
		quiet[route] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &responseRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			route := routePattern(r)
			status := rec.code()
			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case quiet[route]:
				level = slog.LevelDebug
			}

			log.LogAttrs(r.Context(), level, "http request",
				slog.String("request_id", RequestIDFromContext(r.Context())),
				slog.String("method", r.Method),
				slog.String("route", route),
				slog.Int("status", status),
				slog.Int("bytes", rec.size),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return unmatchedRoute
}
