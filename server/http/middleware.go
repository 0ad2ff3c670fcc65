package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type requestIdKey struct{}

// RequestId tags each request with a generated id so log lines from a
// single request can be correlated.
func RequestId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if len(id) == 0 {
			id = uuid.New().String()
		}

		w.Header().Set("X-Request-Id", id)

		ctx := context.WithValue(r.Context(), requestIdKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIdFrom returns the request id set by the RequestId middleware.
func RequestIdFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIdKey{}).(string)
	return id, ok
}

// Recover converts a panic in a downstream handler into a 500 so one
// bad request cannot take the process down.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(r.Context(), "handler panicked", "panic", rec)
				writeJSON(w, http.StatusInternalServerError, map[string]string{
					"error": "internal error",
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging emits one structured line per request.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		}
		if id, ok := RequestIdFrom(r.Context()); ok {
			attrs = append(attrs, "request_id", id)
		}

		slog.InfoContext(r.Context(), "handled request", attrs...)
	})
}
