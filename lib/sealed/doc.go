// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed wraps plause password manifests in ASCII-armored age
// encryption so the manifest (salt plus every password) can sit next to
// the block without revealing how many items the block holds.
//
// Two recipient kinds are supported: age x25519 public keys, and a
// single scrypt passphrase. Private keys, passphrases, and decrypted
// plaintext travel as [secret.Buffer] values (mmap-backed, locked
// against swap, zeroed on Close).
//
// Key exports:
//
//   - [GenerateKeypair] -- new age x25519 keypair for plause keygen
//   - [Seal] / [SealWithPassphrase] -- armored ciphertext
//   - [Open] / [OpenWithPassphrase] -- plaintext in a secret.Buffer
//   - [IsSealed] -- armor header detection
//   - [ParsePublicKey] -- recipient validation
//
// Depends on lib/secret for secure memory allocation.
package sealed
