package middleware

import (
	"net/http"
	"time"

	"github.com/noopishere/vector-mobile/internal/metrics"
)

// Metrics records request counts and latency per route pattern.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrap(w)
			next.ServeHTTP(rw, r)
			metrics.RecordHTTPRequest(r.Method, routeOf(r), rw.statusCode, time.Since(start))
		})
	}
}
