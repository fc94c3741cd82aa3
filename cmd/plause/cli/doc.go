// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the plause
// binary.
//
// The central type is [Command]: a named subcommand with optional
// nested [Command.Subcommands], a [pflag.FlagSet] factory, and a Run
// function. [Command.Execute] handles flag parsing, subcommand routing,
// and help output with examples. Unknown commands and flags get a
// "did you mean" suggestion when a known name is within edit distance
// 3.
//
// Flags are usually declared as tagged struct fields and bound with
// [FlagsFromParams].
//
// [NewCommandLogger] returns the slog logger every command uses.
// [ReadPassphrase] prompts on the terminal with echo disabled, for
// manifests sealed with a passphrase. [ExitError] lets a command pick
// its exit code.
package cli
