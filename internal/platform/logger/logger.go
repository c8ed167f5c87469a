package logger

import (
	"log/slog"
	"os"
)

// New returns a structured logger writing to stdout. The level can be raised
// through CONSENTGATE_LOG_LEVEL for local debugging.
func New() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("CONSENTGATE_LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
