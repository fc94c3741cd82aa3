// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/plause/lib/sealed"
	"github.com/bureau-foundation/plause/lib/secret"
)

// SealOptions selects how SealFile encrypts a manifest. Exactly one of
// Recipients or Passphrase must be set.
type SealOptions struct {
	// Recipients are age x25519 public keys (age1...).
	Recipients []string

	// Passphrase seals with scrypt instead of public keys.
	Passphrase *secret.Buffer

	// WorkFactor is the scrypt log2(N); zero selects the default.
	WorkFactor int
}

// OpenOptions carries the key material OpenFile may need. Both fields
// are optional; a plain manifest needs neither.
type OpenOptions struct {
	// Identity is the contents of an age identity file.
	Identity *secret.Buffer

	// Passphrase opens manifests sealed with a passphrase.
	Passphrase *secret.Buffer
}

// SealFile writes m as an ASCII-armored age file with mode 0600.
func SealFile(path string, m *Manifest, options SealOptions) error {
	encoded, err := m.Bytes()
	if err != nil {
		return err
	}
	defer secret.Zero(encoded)

	var ciphertext []byte
	switch {
	case len(options.Recipients) > 0 && options.Passphrase != nil:
		return fmt.Errorf("manifest: recipients and passphrase are mutually exclusive")
	case options.Passphrase != nil:
		ciphertext, err = sealed.SealWithPassphrase(encoded, options.Passphrase, options.WorkFactor)
	default:
		ciphertext, err = sealed.Seal(encoded, options.Recipients)
	}
	if err != nil {
		return fmt.Errorf("sealing manifest: %w", err)
	}
	return writeFile(path, ciphertext)
}

// OpenFile reads a manifest from path, decrypting it first when it
// carries the age armor header.
func OpenFile(path string, options OpenOptions) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	if !sealed.IsSealed(data) {
		defer secret.Zero(data)
		return Parse(data)
	}
	return Open(data, options)
}

// IsSealedFile reports whether the manifest at path is age-armored.
func IsSealedFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading manifest: %w", err)
	}
	defer secret.Zero(data)
	return sealed.IsSealed(data), nil
}

// IsPassphraseSealedFile reports whether the manifest at path is
// sealed with a passphrase rather than to public keys.
func IsPassphraseSealedFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading manifest: %w", err)
	}
	return sealed.IsSealed(data) && sealed.IsPassphraseSealed(data), nil
}

// Open decrypts and parses an armored manifest.
func Open(ciphertext []byte, options OpenOptions) (*Manifest, error) {
	var (
		plaintext *secret.Buffer
		err       error
	)
	switch {
	case sealed.IsPassphraseSealed(ciphertext):
		if options.Passphrase == nil {
			return nil, ErrKeyRequired
		}
		plaintext, err = sealed.OpenWithPassphrase(ciphertext, options.Passphrase)
	default:
		if options.Identity == nil {
			return nil, ErrKeyRequired
		}
		plaintext, err = sealed.Open(ciphertext, options.Identity)
	}
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer plaintext.Close()
	return Parse(plaintext.Bytes())
}
