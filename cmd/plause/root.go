// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import "github.com/bureau-foundation/plause/cmd/plause/cli"

func root(env *environment) *cli.Command {
	return &cli.Command{
		Name:        "plause",
		Description: "plause: plausible deniability for love and friendship.\n\nSeveral messages, one block, one password each.",
		Output:      env.stderr,
		Subcommands: []*cli.Command{
			encryptCommand(env),
			interactiveCommand(env),
			decryptCommand(env),
			keygenCommand(env),
			versionCommand(env),
		},
	}
}
