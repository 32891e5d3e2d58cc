package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Header names whose values never belong in a log line.
var redactedHeaders = []string{
	"authorization",
	"cookie",
	"x-api-key",
}

// Logging emits one structured line per request once the handler finishes,
// leveled by status class. Request bodies are never logged; they routinely
// carry passwords and tokens.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(sw, r)

			level := slog.LevelInfo
			switch {
			case sw.status >= 500:
				level = slog.LevelError
			case sw.status >= 400:
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "http request",
				"trace_id", TraceID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"status", sw.statusCode(),
				"bytes", sw.written,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", loggableHeaders(r.Header),
			)
		})
	}
}

// statusWriter records the status code and body size as they pass through.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.written += n
	return n, err
}

// statusCode treats an implicit write as the 200 net/http sends.
func (w *statusWriter) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func loggableHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isRedacted(name) {
			out[name] = "[REDACTED]"
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func isRedacted(name string) bool {
	lower := strings.ToLower(name)
	for _, h := range redactedHeaders {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}
