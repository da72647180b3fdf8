// Package plog provides the process-wide logger. Informational records
// go to stdout, warnings and errors to stderr, so progress output can
// be piped without dragging failures along.
package plog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// splitHandler routes records by severity: warnings and above to the
// error handler, everything else to the output handler.
type splitHandler struct {
	out slog.Handler
	err slog.Handler
}

func (h *splitHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.out.Enabled(ctx, level) || h.err.Enabled(ctx, level)
}

func (h *splitHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		return h.err.Handle(ctx, r)
	}
	return h.out.Handle(ctx, r)
}

func (h *splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &splitHandler{out: h.out.WithAttrs(attrs), err: h.err.WithAttrs(attrs)}
}

func (h *splitHandler) WithGroup(name string) slog.Handler {
	return &splitHandler{out: h.out.WithGroup(name), err: h.err.WithGroup(name)}
}

var logger *slog.Logger
var quiet atomic.Bool

func init() {
	logger = slog.New(&splitHandler{
		out: slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		err: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}),
	})
}

// SetOutput redirects all records to w. Used by tests; also clears
// quiet mode so every level is captured.
func SetOutput(w io.Writer) {
	quiet.Store(false)
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// SetQuiet suppresses Info records when enabled. Warnings and errors
// are always written.
func SetQuiet(q bool) {
	quiet.Store(q)
}

// IsQuiet reports whether Info records are currently suppressed.
func IsQuiet() bool {
	return quiet.Load()
}

// Info logs an informational message unless quiet mode is on.
func Info(msg string, args ...any) {
	if quiet.Load() {
		return
	}
	logger.Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}
