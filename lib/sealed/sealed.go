// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/bureau-foundation/plause/lib/secret"
)

// DefaultWorkFactor is the scrypt log2(N) used by SealWithPassphrase
// when the caller passes zero. It matches the age CLI default.
const DefaultWorkFactor = 18

// Keypair holds an age x25519 keypair. The private key lives in a
// secret.Buffer; the public key is safe to publish.
//
// The caller must call Close when the keypair is no longer needed.
type Keypair struct {
	// PrivateKey is the identity in AGE-SECRET-KEY-1... format.
	PrivateKey *secret.Buffer

	// PublicKey is the recipient in age1... format.
	PublicKey string
}

// Close releases the private key memory. Idempotent.
func (k *Keypair) Close() error {
	if k.PrivateKey != nil {
		return k.PrivateKey.Close()
	}
	return nil
}

// GenerateKeypair generates a new age x25519 keypair.
func GenerateKeypair() (*Keypair, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating age keypair: %w", err)
	}

	// The identity string itself stays on the heap until GC; the mmap
	// buffer is the durable copy.
	privateKey, err := secret.NewFromBytes([]byte(identity.String()))
	if err != nil {
		return nil, fmt.Errorf("protecting private key: %w", err)
	}

	return &Keypair{
		PrivateKey: privateKey,
		PublicKey:  identity.Recipient().String(),
	}, nil
}

// Seal encrypts plaintext to one or more age x25519 public keys and
// returns ASCII-armored ciphertext.
func Seal(plaintext []byte, recipientKeys []string) ([]byte, error) {
	if len(recipientKeys) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	recipients := make([]age.Recipient, 0, len(recipientKeys))
	for _, key := range recipientKeys {
		recipient, err := age.ParseX25519Recipient(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("parsing recipient key %q: %w", key, err)
		}
		recipients = append(recipients, recipient)
	}
	return seal(plaintext, recipients...)
}

// SealWithPassphrase encrypts plaintext with an scrypt-derived key.
// workFactor is log2 of the scrypt N parameter; zero selects
// DefaultWorkFactor. The passphrase is borrowed, not closed.
func SealWithPassphrase(plaintext []byte, passphrase *secret.Buffer, workFactor int) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(passphrase.String())
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}
	if workFactor == 0 {
		workFactor = DefaultWorkFactor
	}
	recipient.SetWorkFactor(workFactor)
	return seal(plaintext, recipient)
}

func seal(plaintext []byte, recipients ...age.Recipient) ([]byte, error) {
	var ciphertext bytes.Buffer
	armorWriter := armor.NewWriter(&ciphertext)

	writer, err := age.Encrypt(armorWriter, recipients...)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing plaintext to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing age encryption: %w", err)
	}
	if err := armorWriter.Close(); err != nil {
		return nil, fmt.Errorf("finalizing armor: %w", err)
	}
	return ciphertext.Bytes(), nil
}

// Open decrypts armored ciphertext with the identities in an age
// identity file (as written by plause keygen: comment lines plus one
// AGE-SECRET-KEY-1... per line). The identity buffer is borrowed, not
// closed. The caller must close the returned plaintext.
func Open(ciphertext []byte, identityFile *secret.Buffer) (*secret.Buffer, error) {
	identities, err := age.ParseIdentities(strings.NewReader(identityFile.String()))
	if err != nil {
		return nil, fmt.Errorf("parsing identity file: %w", err)
	}
	return open(ciphertext, identities...)
}

// OpenWithPassphrase decrypts ciphertext produced by SealWithPassphrase.
func OpenWithPassphrase(ciphertext []byte, passphrase *secret.Buffer) (*secret.Buffer, error) {
	identity, err := age.NewScryptIdentity(passphrase.String())
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}
	return open(ciphertext, identity)
}

func open(ciphertext []byte, identities ...age.Identity) (*secret.Buffer, error) {
	reader, err := age.Decrypt(armor.NewReader(bytes.NewReader(ciphertext)), identities...)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}

	plaintext, err := io.ReadAll(reader)
	if err != nil {
		secret.Zero(plaintext)
		return nil, fmt.Errorf("reading decrypted plaintext: %w", err)
	}

	if len(plaintext) == 0 {
		// secret.Buffer cannot be empty.
		return secret.New(1)
	}

	buffer, err := secret.NewFromBytes(plaintext)
	if err != nil {
		secret.Zero(plaintext)
		return nil, fmt.Errorf("protecting decrypted plaintext: %w", err)
	}
	return buffer, nil
}

// IsSealed reports whether data starts with the age armor header,
// ignoring leading whitespace.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte(armor.Header))
}

// IsPassphraseSealed reports whether armored ciphertext was sealed with
// SealWithPassphrase rather than to x25519 recipients. It inspects the
// age header stanzas without decrypting anything.
func IsPassphraseSealed(ciphertext []byte) bool {
	decoded, err := io.ReadAll(io.LimitReader(armor.NewReader(bytes.NewReader(ciphertext)), 4096))
	if err != nil && len(decoded) == 0 {
		return false
	}
	return bytes.Contains(decoded, []byte("\n-> scrypt "))
}

// ParsePublicKey validates an age x25519 public key string.
func ParsePublicKey(publicKey string) error {
	if _, err := age.ParseX25519Recipient(publicKey); err != nil {
		return fmt.Errorf("invalid age public key: %w", err)
	}
	return nil
}
