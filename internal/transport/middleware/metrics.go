package middleware

import (
	"net/http"
	"time"
)

type requestObserver interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

// Metrics records one observation per request, labelled by the ServeMux
// pattern that matched rather than the raw path.
func Metrics(observer requestObserver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			annotateRoute(r.Context(), route)
			observer.ObserveRequest(r.Method, route, sw.status, time.Since(start))
		})
	}
}
