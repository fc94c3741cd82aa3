// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/plause/cmd/plause/cli"
	"github.com/bureau-foundation/plause/lib/sealed"
)

type keygenParams struct {
	Output  string `flag:"output,o" desc:"write the identity file here (mode 0600) instead of stdout"`
	Verbose bool   `flag:"verbose,v" desc:"log debug detail"`
}

func keygenCommand(env *environment) *cli.Command {
	var params keygenParams
	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate an age keypair for sealing manifests",
		Description: "Generate an age x25519 identity. The identity file opens sealed\n" +
			"manifests (decrypt --identity); the public key is what encrypt --seal-to\n" +
			"takes. With --output the public key is printed to stdout.",
		Usage: "plause keygen [flags]",
		Examples: []cli.Example{
			{
				Description: "Create an identity and seal a manifest to it",
				Command:     "plause keygen -o key.txt && plause encrypt --seal-to $(grep -o 'age1.*' key.txt) notes.txt",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("keygen", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			logger := env.newLogger(params.Verbose).With("command", "keygen")

			keypair, err := sealed.GenerateKeypair()
			if err != nil {
				return err
			}
			defer keypair.Close()

			identityFile := fmt.Sprintf("# created: %s\n# public key: %s\n%s\n",
				time.Now().UTC().Format(time.RFC3339), keypair.PublicKey, keypair.PrivateKey.String())

			if params.Output == "" {
				_, err := fmt.Fprint(env.stdout, identityFile)
				return err
			}

			file, err := os.OpenFile(params.Output, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
			if err != nil {
				return fmt.Errorf("creating identity file: %w", err)
			}
			if _, err := file.WriteString(identityFile); err != nil {
				file.Close()
				return fmt.Errorf("writing identity file: %w", err)
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("writing identity file: %w", err)
			}
			logger.Info("identity written", "path", params.Output)
			fmt.Fprintf(env.stdout, "%s\n", keypair.PublicKey)
			return nil
		},
	}
}
