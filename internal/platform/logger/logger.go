package logger

import (
	"log/slog"
	"os"
)

// New returns the application logger: JSON to stdout so log shippers can
// ingest it without a parsing config.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
