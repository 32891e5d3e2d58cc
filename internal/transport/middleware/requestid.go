package middleware

import (
	"context"
	"net/http"

	"github.com/adeharia/finance-tracker/pkg/logger"

	"github.com/google/uuid"
)

const traceHeader = "X-Trace-ID"

type traceIDKey struct{}

// RequestID tags every request with a trace ID, honoring one supplied by the
// caller. The ID rides the context, the log attributes and the response
// header so a single request can be followed across all three.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(traceHeader)
		if id == "" {
			id = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), traceIDKey{}, id)
		ctx = logger.With(ctx, "traceID", id)
		w.Header().Set(traceHeader, id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TraceID returns the request's trace ID, or an empty string outside a
// request handled by RequestID.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}
