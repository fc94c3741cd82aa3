// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/bureau-foundation/plause/lib/secret"
)

// ErrNoTerminal means a passphrase was needed but stdin is not a
// terminal to prompt on.
var ErrNoTerminal = errors.New("no terminal available for passphrase prompt (use --passphrase-file)")

// ReadPassphrase returns the passphrase from passphraseFile when set
// ("-" reads one line of stdin), otherwise prompts on the terminal with
// echo disabled. With confirm set the user types it twice. The caller
// must close the returned buffer.
func ReadPassphrase(passphraseFile, prompt string, confirm bool) (*secret.Buffer, error) {
	if passphraseFile != "" {
		buffer, err := secret.ReadFromPath(passphraseFile)
		if err != nil {
			return nil, fmt.Errorf("reading passphrase: %w", err)
		}
		return buffer, nil
	}

	stdinDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinDescriptor) {
		return nil, ErrNoTerminal
	}

	fmt.Fprint(os.Stderr, prompt)
	first, err := term.ReadPassword(stdinDescriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	if len(first) == 0 {
		return nil, fmt.Errorf("passphrase is empty")
	}

	if confirm {
		fmt.Fprint(os.Stderr, "Confirm "+prompt)
		second, err := term.ReadPassword(stdinDescriptor)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			secret.Zero(first)
			return nil, fmt.Errorf("reading passphrase confirmation: %w", err)
		}
		match := secret.Equal(first, second)
		secret.Zero(second)
		if !match {
			secret.Zero(first)
			return nil, fmt.Errorf("passphrases do not match")
		}
	}

	return secret.NewFromBytes(first)
}
