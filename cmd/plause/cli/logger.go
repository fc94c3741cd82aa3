// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates the structured logger for plause commands.
// When stderr is a terminal it uses slog.TextHandler; when stderr is
// piped or redirected it uses slog.JSONHandler.
//
// Callers scope the logger with command context via With():
//
//	logger := cli.NewCommandLogger(verbose).With("command", "decrypt")
//
// Passwords, salts, and item content must never be logged.
func NewCommandLogger(verbose bool) *slog.Logger {
	return NewLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), verbose)
}

// NewLogger builds a logger writing to w, text-formatted when
// humanReadable is set and JSON otherwise. verbose enables debug
// records.
func NewLogger(w io.Writer, humanReadable, verbose bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		options.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if humanReadable {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}
