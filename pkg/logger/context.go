package logger

import (
	"context"
	"log/slog"
)

type ctxLoggerKey struct{}

// With derives a context whose logger carries the extra attributes. Handlers
// and services pick them up through From, so request-scoped fields like the
// trace ID follow the call chain without threading a logger everywhere.
func With(ctx context.Context, attrs ...any) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, From(ctx).With(attrs...))
}

// From returns the context's logger, falling back to the process logger.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok {
		return l
	}
	return L()
}
