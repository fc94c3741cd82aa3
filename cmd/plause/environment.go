// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/bureau-foundation/plause/cmd/plause/cli"
)

// environment carries the process streams so commands can run against
// buffers in tests.
type environment struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// stdinIsTerminal enables the interactive usage hint.
	stdinIsTerminal bool

	newLogger func(verbose bool) *slog.Logger
}

func newEnvironment() *environment {
	return &environment{
		stdin:           os.Stdin,
		stdout:          os.Stdout,
		stderr:          os.Stderr,
		stdinIsTerminal: term.IsTerminal(int(os.Stdin.Fd())),
		newLogger:       cli.NewCommandLogger,
	}
}
