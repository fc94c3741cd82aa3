// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest provides the pluggable hash primitive underneath the
// plause keystream.
//
// A [Func] is a stateless function from input bytes to raw digest
// bytes. There is no reset-and-reuse hasher object: every call starts
// from a fresh state, so sequential hashes cannot bleed into each
// other.
//
// Built-in primitives:
//
//   - [SHA256] -- the default, and the only one that produces blocks
//     compatible with blocks written by earlier plause releases
//   - [BLAKE3] -- github.com/zeebo/blake3, 256-bit output
//   - [BLAKE2b256] -- golang.org/x/crypto/blake2b
//   - [SHA3256] -- golang.org/x/crypto/sha3
//
// Primitives that only expose a hex-string interface are adapted with
// [Hex], which decodes the text back to raw bytes and rejects anything
// outside the lower-case hex alphabet with [ErrAlphabetViolation].
//
// [Latin1] widens each byte to its Latin-1 code point and UTF-8
// encodes the result. The keystream applies it to every digest input,
// matching the historic "bytes as characters" hashing behavior.
//
// This package has no dependencies on other plause packages.
package digest
