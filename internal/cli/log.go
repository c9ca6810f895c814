// Package cli implements the seatmap command-line interface.
//
// The commands load a floor from the seating backend, edit or render it,
// and write geometry back. The CLI is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - render: Write a floor or room as SVG
//   - save: Write the geometry found in an edited SVG back to the backend
//   - edit: Edit a room interactively in the terminal
//   - serve: Run the HTTP editor service
//   - cache: Manage the diagram and employee cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. In debug
// mode the editor, cache and HTTP hooks log every event. Loggers are passed
// through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seatmap/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Mounted floor 2 (312ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks logs editor, cache and HTTP events at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.EditorHooks = logHooks{}
	_ observability.CacheHooks  = logHooks{}
	_ observability.HTTPHooks   = logHooks{}
)

// installLogHooks routes every observability event to l.
func installLogHooks(l *log.Logger) {
	h := logHooks{logger: l.WithPrefix("hooks")}
	observability.SetEditorHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnGestureStart(_ context.Context, sessionID, gesture, target string) {
	h.logger.Debug("gesture start", "session", sessionID, "gesture", gesture, "target", target)
}

func (h logHooks) OnGestureEnd(_ context.Context, sessionID, gesture string, moves int) {
	h.logger.Debug("gesture end", "session", sessionID, "gesture", gesture, "moves", moves)
}

func (h logHooks) OnRotate(_ context.Context, seatID int64, angle float64) {
	h.logger.Debug("rotate", "seat", seatID, "angle", angle)
}

func (h logHooks) OnMount(_ context.Context, floor int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("mount failed", "floor", floor, "elapsed", d, "error", err)
		return
	}
	h.logger.Debug("mounted", "floor", floor, "elapsed", d)
}

func (h logHooks) OnSave(_ context.Context, roomID int64, written, failed int, d time.Duration) {
	h.logger.Debug("saved", "room", roomID, "written", written, "failed", failed, "elapsed", d)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "host", host, "path", path, "status", status, "elapsed", d)
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "error", err)
}
