// Package logging routes diagnostic output from the analysis stages
// through a single slog logger. The library stays silent until a caller
// opts in with Init, so embedding vidvet never writes to stderr uninvited.
package logging

import (
	"io"
	"log/slog"
	"sync/atomic"
)

// Level aliases for slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var current atomic.Pointer[slog.Logger]

func init() {
	Disable()
}

// Init routes diagnostics to w at the given level.
func Init(level slog.Level, w io.Writer) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	current.Store(slog.New(handler))
}

// Disable discards all diagnostics. This is the starting state.
func Disable() {
	current.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// Debug logs seek positions, retry decisions and other per-frame detail.
func Debug(msg string, args ...any) {
	current.Load().Debug(msg, args...)
}

// Info logs stage-level progress.
func Info(msg string, args ...any) {
	current.Load().Info(msg, args...)
}

// Warn logs degraded-but-continuing conditions, such as a keyframe that
// could not be decoded.
func Warn(msg string, args ...any) {
	current.Load().Warn(msg, args...)
}

// Error logs failures that abort an operation.
func Error(msg string, args ...any) {
	current.Load().Error(msg, args...)
}
