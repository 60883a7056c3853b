package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"nflpulse/internal/infrastructure"
)

// Metrics records request counts and latencies in Prometheus. The route
// pattern is resolved after the handler runs so parametrised paths are
// recorded as their pattern rather than as raw URLs.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		infrastructure.HTTPRequestsTotal.
			WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		infrastructure.HTTPRequestDuration.
			WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
