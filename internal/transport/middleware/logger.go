package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
	"github.com/heartmarshall/proposalflow-backend/pkg/ctxutil"
)

type requestLogKey struct{}

// requestLog collects what inner middleware learn after Logger has passed
// the request on. Auth and Metrics derive new requests, so Logger cannot
// read the actor or matched route from its own request's context.
type requestLog struct {
	actor *domain.Actor
	route string
}

func annotateActor(ctx context.Context, actor domain.Actor) {
	if rl, ok := ctx.Value(requestLogKey{}).(*requestLog); ok {
		rl.actor = &actor
	}
}

func annotateRoute(ctx context.Context, route string) {
	if rl, ok := ctx.Value(requestLogKey{}).(*requestLog); ok {
		rl.route = route
	}
}

// Logger emits one "http.request" line per request with the matched route,
// status, duration, request id and, when authenticated, the actor.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			rl := &requestLog{}

			next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), requestLogKey{}, rl)))

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
			}
			if rl.route != "" {
				attrs = append(attrs, slog.String("route", rl.route))
			}

			actor := rl.actor
			if actor == nil {
				if a, ok := ctxutil.ActorFromCtx(r.Context()); ok {
					actor = &a
				}
			}
			if actor != nil {
				attrs = append(attrs,
					slog.String("user_id", actor.ID.String()),
					slog.String("user_role", actor.Role.String()),
				)
			}

			level := slog.LevelInfo
			switch {
			case sw.status >= 500:
				level = slog.LevelError
			case sw.status == http.StatusTooManyRequests:
				level = slog.LevelWarn
			}
			logger.LogAttrs(r.Context(), level, "http.request", attrs...)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
