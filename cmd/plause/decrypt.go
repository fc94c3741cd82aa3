// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/plause/cmd/plause/cli"
	"github.com/bureau-foundation/plause/lib/config"
	"github.com/bureau-foundation/plause/lib/manifest"
	"github.com/bureau-foundation/plause/lib/payload"
	"github.com/bureau-foundation/plause/lib/plause"
	"github.com/bureau-foundation/plause/lib/secret"
)

// outputFileMode is the mode of extracted items: plaintext.
const outputFileMode os.FileMode = 0600

// exitPartial is the exit code when some manifest passwords matched
// nothing in the block but at least one item was extracted.
const exitPartial = 2

type decryptParams struct {
	blockParams
	Identity       string `flag:"identity,i" desc:"age identity file for a sealed manifest"`
	PassphraseFile string `flag:"passphrase-file" desc:"read the manifest passphrase from a file (- for stdin)"`
	Decompress     bool   `flag:"decompress" desc:"undo --compress framing on extracted items"`
}

func decryptCommand(env *environment) *cli.Command {
	var params decryptParams
	return &cli.Command{
		Name:    "decrypt",
		Summary: "Extract every item listed in a manifest",
		Description: "Read the salt and passwords from the manifest, then extract the item\n" +
			"for each password from the block. With one password the item is written\n" +
			"to PREFIX; with several, to PREFIX.0, PREFIX.1, and so on.",
		Usage: "plause decrypt [flags] [PREFIX]",
		Examples: []cli.Example{
			{
				Description: "Extract output.enc to output_files.# using pass.key",
				Command:     "plause decrypt output_files",
			},
			{
				Description: "Open a manifest sealed to an age key",
				Command:     "plause decrypt --identity key.txt -P pass.key.age",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("decrypt", &params)
		},
		Run: func(args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("expected at most one PREFIX, got %d arguments", len(args))
			}
			cfg, err := params.resolve()
			if err != nil {
				return err
			}
			if params.Identity != "" {
				cfg.Seal.IdentityFile = params.Identity
			}
			if len(args) == 1 {
				cfg.Paths.Output = args[0]
			}
			if err := validate(cfg); err != nil {
				return err
			}
			logger := env.newLogger(params.Verbose).With("command", "decrypt")
			return decrypt(cfg, &params, logger)
		},
	}
}

func decrypt(cfg *config.Config, params *decryptParams, logger *slog.Logger) error {
	passwordManifest, err := openManifest(cfg, params.PassphraseFile)
	if err != nil {
		return err
	}
	defer passwordManifest.Zero()

	content, err := os.ReadFile(cfg.Paths.Block)
	if err != nil {
		return fmt.Errorf("reading block: %w", err)
	}
	if len(content) != cfg.BlockSize {
		// Blocks are fixed-size, but the markers are searched anywhere.
		logger.Warn("block length differs from the configured block size",
			"block", cfg.Paths.Block,
			"length", len(content),
			"block_size", cfg.BlockSize,
		)
	}

	container, err := newContainer(cfg, plause.Config{})
	if err != nil {
		return err
	}
	container.Import(content)
	container.SetSalt(passwordManifest.Salt)

	extracted, failed := 0, 0
	for index, password := range passwordManifest.Passwords {
		path := cfg.Paths.Output
		if len(passwordManifest.Passwords) > 1 {
			path = fmt.Sprintf("%s.%d", cfg.Paths.Output, index)
		}

		item, err := extractItem(container, password, params.Decompress)
		if err != nil {
			failed++
			logger.Warn("item not extracted", "index", index, "error", err)
			continue
		}
		if err := writeOutput(path, item, outputFileMode); err != nil {
			return err
		}
		extracted++
		logger.Debug("item extracted", "index", index, "output", path, "size", len(item))
	}

	logger.Info("block decrypted",
		"block", cfg.Paths.Block,
		"extracted", extracted,
		"failed", failed,
	)
	switch {
	case extracted == 0:
		return fmt.Errorf("no item could be extracted from %s (wrong salt, digest, or manifest?)", cfg.Paths.Block)
	case failed > 0:
		return &cli.ExitError{Code: exitPartial}
	}
	return nil
}

func extractItem(container *plause.Container, password []byte, decompress bool) ([]byte, error) {
	item, err := container.Extract(password)
	if err != nil {
		return nil, err
	}
	if !decompress {
		return item, nil
	}
	decoded, err := payload.Decode(item)
	if err != nil {
		secret.Zero(item)
		return nil, err
	}
	return decoded, nil
}

// openManifest reads the manifest, decrypting it when sealed. Key
// material is only requested for the kind of sealing actually found.
func openManifest(cfg *config.Config, passphraseFile string) (*manifest.Manifest, error) {
	path := cfg.Paths.Manifest
	sealed, err := manifest.IsSealedFile(path)
	if err != nil {
		return nil, err
	}
	if !sealed {
		return manifest.ReadFile(path)
	}

	passphraseSealed, err := manifest.IsPassphraseSealedFile(path)
	if err != nil {
		return nil, err
	}

	var options manifest.OpenOptions
	if passphraseSealed {
		passphrase, err := cli.ReadPassphrase(passphraseFile, "Manifest passphrase: ", false)
		if err != nil {
			return nil, err
		}
		defer passphrase.Close()
		options.Passphrase = passphrase
	} else {
		if cfg.Seal.IdentityFile == "" {
			return nil, fmt.Errorf("%s is sealed: %w (use --identity)", path, manifest.ErrKeyRequired)
		}
		identity, err := secret.ReadFromPath(cfg.Seal.IdentityFile)
		if err != nil {
			return nil, fmt.Errorf("reading identity file: %w", err)
		}
		defer identity.Close()
		options.Identity = identity
	}

	opened, err := manifest.OpenFile(path, options)
	if errors.Is(err, manifest.ErrTooShort) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return opened, err
}
