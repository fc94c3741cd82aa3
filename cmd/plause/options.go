// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/plause/lib/config"
	"github.com/bureau-foundation/plause/lib/digest"
	"github.com/bureau-foundation/plause/lib/plause"
)

// blockParams are the flags every block command shares. Zero values
// mean "take it from the configuration".
type blockParams struct {
	Config       string `flag:"config" desc:"configuration file (default: $PLAUSE_CONFIG)"`
	BlockSize    int    `flag:"block-size,b" desc:"block size in bytes (default 1048576)"`
	Salt         string `flag:"salt,s" desc:"block salt (default saltysaltsalt)"`
	EncryptFile  string `flag:"encrypt-file,E" desc:"block file (default output.enc)"`
	PasswordFile string `flag:"password-file,P" desc:"password manifest (default pass.key)"`
	Digest       string `flag:"digest" desc:"keystream digest: sha256, blake3, blake2b-256, sha3-256 (default sha256)"`
	Verbose      bool   `flag:"verbose,v" desc:"log debug detail"`
}

// resolve loads the configuration and lays the explicitly set flags
// over it.
func (p *blockParams) resolve() (*config.Config, error) {
	cfg, err := config.Resolve(p.Config)
	if err != nil {
		return nil, err
	}

	if p.BlockSize != 0 {
		cfg.BlockSize = p.BlockSize
	}
	if p.Salt != "" {
		cfg.Salt = p.Salt
	}
	if p.EncryptFile != "" {
		cfg.Paths.Block = p.EncryptFile
	}
	if p.PasswordFile != "" {
		cfg.Paths.Manifest = p.PasswordFile
	}
	if p.Digest != "" {
		cfg.Digest = p.Digest
	}
	return cfg, nil
}

// newContainer builds an empty container from cfg. cfg must already be
// validated.
func newContainer(cfg *config.Config, params plause.Config) (*plause.Container, error) {
	function, err := digest.Lookup(cfg.Digest)
	if err != nil {
		return nil, err
	}
	params.BlockSize = cfg.BlockSize
	params.Salt = []byte(cfg.Salt)
	params.Digest = function
	return plause.New(params)
}

func validate(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}
	return nil
}

// writeOutput replaces path with data.
func writeOutput(path string, data []byte, mode os.FileMode) error {
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
