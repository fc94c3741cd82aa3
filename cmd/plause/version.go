// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/plause/cmd/plause/cli"
	"github.com/bureau-foundation/plause/lib/digest"
	"github.com/bureau-foundation/plause/lib/version"
)

type versionParams struct {
	Verbose bool `flag:"verbose,v" desc:"also show platform, digests, and the binary's BLAKE3 hash"`
}

func versionCommand(env *environment) *cli.Command {
	var params versionParams
	return &cli.Command{
		Name:    "version",
		Summary: "Show version information",
		Usage:   "plause version [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("version", &params)
		},
		Run: func(args []string) error {
			if !params.Verbose {
				fmt.Fprintf(env.stdout, "plause %s\n", version.Info())
				return nil
			}

			fmt.Fprintf(env.stdout, "plause %s\n", version.Full())
			fmt.Fprintf(env.stdout, "  Digests: %v\n", digest.Names())
			selfDigest, path, err := version.SelfDigest()
			if err != nil {
				return err
			}
			fmt.Fprintf(env.stdout, "  Binary: %s\n  BLAKE3: %s\n", path, selfDigest)
			return nil
		},
	}
}
