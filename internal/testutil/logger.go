package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a slog.Logger whose output goes nowhere. Every component
// requires a logger; tests that do not assert on log output pass this one.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
