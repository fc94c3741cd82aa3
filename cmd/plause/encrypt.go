// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/plause/cmd/plause/cli"
	"github.com/bureau-foundation/plause/lib/config"
	"github.com/bureau-foundation/plause/lib/entropy"
	"github.com/bureau-foundation/plause/lib/manifest"
	"github.com/bureau-foundation/plause/lib/passgen"
	"github.com/bureau-foundation/plause/lib/payload"
	"github.com/bureau-foundation/plause/lib/plause"
)

// blockFileMode is the mode of written blocks.
const blockFileMode os.FileMode = 0644

type encryptParams struct {
	blockParams
	PasswordLength int      `flag:"password-length" desc:"length of generated passwords (default 24)"`
	Compress       string   `flag:"compress" desc:"compress items before packing: none, lz4, zstd (default none)"`
	SealTo         []string `flag:"seal-to" desc:"seal the manifest to an age public key (repeatable)"`
	Passphrase     bool     `flag:"passphrase" desc:"seal the manifest with a passphrase"`
	PassphraseFile string   `flag:"passphrase-file" desc:"read the sealing passphrase from a file (- for stdin)"`
	Seed           uint64   `flag:"seed" desc:"deterministic randomness, for reproducible test output" hidden:"true"`
}

// item is one message waiting to be packed, with where it came from
// for logging.
type item struct {
	origin  string
	content []byte
}

func encryptCommand(env *environment) *cli.Command {
	var params encryptParams
	return &cli.Command{
		Name:    "encrypt",
		Summary: "Pack files into a block",
		Description: "Pack each FILE into one block as a separately encrypted item with a\n" +
			"generated password. Writes the block and the password manifest.",
		Usage: "plause encrypt [flags] FILE...",
		Examples: []cli.Example{
			{
				Description: "Encrypt two files into a 120 kB block with a custom salt",
				Command:     "plause encrypt -b 120000 -s secretsaltysalt FILE1 FILE2",
			},
			{
				Description: "Seal the manifest to an age key",
				Command:     "plause encrypt --seal-to age1... notes.txt",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("encrypt", &params)
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("at least one FILE is required")
			}
			cfg, err := params.resolveEncrypt()
			if err != nil {
				return err
			}
			items := make([]item, 0, len(args))
			for _, path := range args {
				content, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading item: %w", err)
				}
				items = append(items, item{origin: path, content: content})
			}
			logger := env.newLogger(params.Verbose).With("command", "encrypt")
			return encryptItems(cfg, &params, logger, items)
		},
	}
}

func interactiveCommand(env *environment) *cli.Command {
	var params encryptParams
	return &cli.Command{
		Name:    "interactive",
		Summary: "Pack lines typed on stdin into a block",
		Description: "Read stdin until end of input and pack every line as a separate item\n" +
			"with a generated password. The line break is not part of the item.",
		Usage: "plause interactive [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("interactive", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			cfg, err := params.resolveEncrypt()
			if err != nil {
				return err
			}
			if env.stdinIsTerminal {
				fmt.Fprintln(env.stderr, "Enter one message per line; finish with Ctrl-D.")
			}
			items, err := readLines(env.stdin, cfg.BlockSize)
			if err != nil {
				return err
			}
			logger := env.newLogger(params.Verbose).With("command", "interactive")
			return encryptItems(cfg, &params, logger, items)
		},
	}
}

// readLines splits reader into one item per line. A line may be as
// long as the block; anything longer could not be packed anyway.
func readLines(reader io.Reader, blockSize int) ([]item, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), max(blockSize+2, bufio.MaxScanTokenSize))

	var items []item
	for scanner.Scan() {
		line := scanner.Bytes()
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
		items = append(items, item{
			origin:  fmt.Sprintf("stdin:%d", len(items)+1),
			content: append([]byte(nil), line...),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no lines on stdin")
	}
	return items, nil
}

// resolveEncrypt returns the validated configuration with the shared
// and the encryption flags applied.
func (p *encryptParams) resolveEncrypt() (*config.Config, error) {
	cfg, err := p.resolve()
	if err != nil {
		return nil, err
	}
	if p.PasswordLength != 0 {
		cfg.PasswordLength = p.PasswordLength
	}
	if p.Compress != "" {
		cfg.Compression = p.Compress
	}
	if len(p.SealTo) > 0 {
		cfg.Seal.Recipients = p.SealTo
	}
	if p.Passphrase || p.PassphraseFile != "" {
		cfg.Seal.Passphrase = true
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// encryptItems packs items into one block and writes the block and its
// manifest.
func encryptItems(cfg *config.Config, params *encryptParams, logger *slog.Logger, items []item) error {
	source := entropy.Crypto()
	if params.Seed != 0 {
		source = entropy.Seeded(params.Seed)
		logger.Warn("using deterministic randomness; output is reproducible", "seed", params.Seed)
	}
	algorithm, err := payload.ParseAlgorithm(cfg.Compression)
	if err != nil {
		return err
	}

	container, err := newContainer(cfg, plause.Config{Source: source})
	if err != nil {
		return err
	}
	passwords, err := passgen.GenerateDistinct(source, len(items), cfg.PasswordLength)
	if err != nil {
		return err
	}

	for index, pending := range items {
		content := pending.content
		if algorithm != payload.None {
			content, err = payload.Encode(content, algorithm)
			if err != nil {
				return fmt.Errorf("compressing %s: %w", pending.origin, err)
			}
		}
		if err := container.Add(passwords[index], content); err != nil {
			return fmt.Errorf("adding %s: %w", pending.origin, err)
		}
		logger.Debug("item queued",
			"origin", pending.origin,
			"size", len(pending.content),
			"packed_size", len(content),
		)
	}

	if err := container.Generate(); err != nil {
		return fmt.Errorf("generating block of %d bytes: %w", cfg.BlockSize, err)
	}
	if err := writeOutput(cfg.Paths.Block, container.Content(), blockFileMode); err != nil {
		return err
	}

	passwordManifest := &manifest.Manifest{Salt: []byte(cfg.Salt), Passwords: container.Passwords()}
	defer passwordManifest.Zero()
	for _, password := range passwords {
		clear(password)
	}

	sealing, err := writeManifest(cfg, params.PassphraseFile, passwordManifest)
	if err != nil {
		return err
	}

	logger.Info("block written",
		"block", cfg.Paths.Block,
		"manifest", cfg.Paths.Manifest,
		"items", container.Len(),
		"block_size", cfg.BlockSize,
		"digest", cfg.Digest,
		"compression", cfg.Compression,
		"sealing", sealing,
	)
	return nil
}

// writeManifest stores the manifest plain or sealed, per cfg.Seal, and
// names the protection used.
func writeManifest(cfg *config.Config, passphraseFile string, passwordManifest *manifest.Manifest) (string, error) {
	switch {
	case cfg.Seal.Passphrase:
		passphrase, err := cli.ReadPassphrase(passphraseFile, "Manifest passphrase: ", true)
		if err != nil {
			return "", err
		}
		defer passphrase.Close()
		options := manifest.SealOptions{Passphrase: passphrase, WorkFactor: cfg.Seal.WorkFactor}
		return "passphrase", manifest.SealFile(cfg.Paths.Manifest, passwordManifest, options)

	case len(cfg.Seal.Recipients) > 0:
		options := manifest.SealOptions{Recipients: cfg.Seal.Recipients}
		return "age", manifest.SealFile(cfg.Paths.Manifest, passwordManifest, options)

	default:
		return "none", manifest.WriteFile(cfg.Paths.Manifest, passwordManifest)
	}
}
