package visualization

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for the visualization package and its
// backend subpackages. By default no log output is produced. Pass nil
// to restore the default silent behavior.
//
// Log levels used:
//   - [slog.LevelDebug]: per-frame diagnostics (draw counts, uploads)
//   - [slog.LevelInfo]: lifecycle events (backend selected, session closed)
//   - [slog.LevelWarn]: rejected operations and skipped draws
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Backend subpackages call this to
// share the same configuration without import cycles.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
