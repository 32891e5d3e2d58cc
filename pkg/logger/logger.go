package logger

import (
	"log/slog"
	"os"
	"strings"
)

var root *slog.Logger

// Init configures the process-wide logger from the logging config. Format
// "json" suits log collectors; anything else gets the human-readable text
// handler. Unknown levels fall back to info.
func Init(level, format string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	root = slog.New(handler)
	slog.SetDefault(root)
}

// L returns the process logger, initializing a debug text logger on first
// use so early callers never get nil.
func L() *slog.Logger {
	if root == nil {
		Init("debug", "text")
	}
	return root
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
