// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

// Package logger provides a thin wrapper around log/slog with a shared attribute style.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger is a type wrapper for the Go stdlib slog.Logger
type Logger struct {
	*slog.Logger
}

// New returns a new Logger that writes to STDERR with the given log level.
func New(level slog.Level) *Logger {
	return NewLogger(level, os.Stderr)
}

// NewLogger returns a new Logger that writes to the given writer with the given log level.
func NewLogger(level slog.Level, writer io.Writer) *Logger {
	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level})
	return &Logger{slog.New(handler)}
}

// Err returns a slog attribute for an error value.
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}
