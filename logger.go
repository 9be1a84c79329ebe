package floor

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

// attached holds the GPU backends of live renderers so that SetLogger
// reaches them too.
var (
	attachedMu sync.Mutex
	attached   = make(map[loggerSetter]int)
)

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for floor and its backends.
// By default, floor produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by floor:
//   - [slog.LevelDebug]: cache diagnostics (rebuild timings, chunk counts)
//   - [slog.LevelInfo]: lifecycle events (world loaded, backend attached)
//   - [slog.LevelWarn]: texture regions replaced by the error region
//   - [slog.LevelError]: operations the cache batch rejects
//
// Example:
//
//	floor.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	attachedMu.Lock()
	defer attachedMu.Unlock()
	for ls := range attached {
		ls.SetLogger(l)
	}
}

// Logger returns the current logger used by floor.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by backends that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// attachLogger passes the current logger to v if it accepts one and keeps
// it updated until detachLogger.
func attachLogger(v any) {
	ls, ok := v.(loggerSetter)
	if !ok {
		return
	}
	attachedMu.Lock()
	defer attachedMu.Unlock()
	attached[ls]++
	ls.SetLogger(Logger())
}

func detachLogger(v any) {
	ls, ok := v.(loggerSetter)
	if !ok {
		return
	}
	attachedMu.Lock()
	defer attachedMu.Unlock()
	if attached[ls]--; attached[ls] <= 0 {
		delete(attached, ls)
	}
}
