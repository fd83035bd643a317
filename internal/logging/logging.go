// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging provides the leveled logger shared across components.
// It wraps log/slog with printf-style methods. A nil *Logger is valid and
// discards everything, so callers never guard their log statements and a
// logging problem never propagates into the recording engine.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger emits leveled, template-style messages.
type Logger struct {
	s *slog.Logger
}

// New returns a Logger writing text-formatted records to w at the given
// minimum level.
func New(w io.Writer, level slog.Level) *Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{s: slog.New(h)}
}

// Default returns a Logger writing to stderr at Info level.
func Default() *Logger {
	return New(os.Stderr, slog.LevelInfo)
}

// Progress logs an informational status message.
func (l *Logger) Progress(format string, args ...any) {
	if l == nil {
		return
	}
	l.s.Info(fmt.Sprintf(format, args...))
}

// Warning logs a non-fatal diagnostic.
func (l *Logger) Warning(format string, args ...any) {
	if l == nil {
		return
	}
	l.s.Warn(fmt.Sprintf(format, args...))
}

// Error logs a failure that the caller is about to surface or has absorbed.
func (l *Logger) Error(format string, args ...any) {
	if l == nil {
		return
	}
	l.s.Error(fmt.Sprintf(format, args...))
}
