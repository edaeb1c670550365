// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging constructs the daemon's logger: a text handler on
// stderr for the operator plus a JSON handler on the configured log
// file for later inspection, fanned out through one slog.Logger.
//
// The logger is built once at startup and passed down explicitly;
// library packages never configure logging themselves.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Options configures New.
type Options struct {
	// Level is the minimum level for all handlers.
	Level slog.Level
	// FilePath is the log file to append JSON records to. Empty
	// disables the file handler.
	FilePath string
	// Stderr overrides the terminal stream. Nil means os.Stderr.
	Stderr io.Writer
}

// ParseLevel maps a config/flag string to a slog.Level. Unknown values
// fall back to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds the daemon logger. It returns the logger and a close
// function for the log file (a no-op when no file is configured).
func New(options Options) (*slog.Logger, func() error, error) {
	stderr := options.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: options.Level}),
	}
	closeFunc := func() error { return nil }

	if options.FilePath != "" {
		file, err := os.OpenFile(options.FilePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: opening log file %s: %w", options.FilePath, err)
		}
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: options.Level}))
		closeFunc = file.Close
	}

	return slog.New(slogmulti.Fanout(handlers...)), closeFunc, nil
}
