package bloom

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. The mic package logs from its capture
// goroutine, so access is atomic.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by bloom. By default bloom produces
// no log output. Pass nil to restore the silent default.
//
// Log levels used by bloom:
//   - [slog.LevelDebug]: stamp spawns, per-frame timing in debug mode
//   - [slog.LevelInfo]: lifecycle events (backend active, resize, stop)
//   - [slog.LevelWarn]: swallowed failures (shader setup, screenshots, overlay)
//
// Example:
//
//	bloom.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by bloom. Sub-packages call this to
// share the same configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
