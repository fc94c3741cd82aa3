// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package block packs marker-wrapped ciphertexts into a fixed-size
// buffer of random-looking bytes, and finds them again by password.
//
// The two directions share only [Settings] and the keystream cipher:
//
//   - Encryption ([Build]): every [Item] becomes a [Piece] (prefix
//     marker, ciphertext, postfix marker) placed at a random offset
//     that keeps a one-byte margin from every earlier piece and never
//     touches the last byte of the block. Gaps are filled with random
//     bytes.
//   - Decryption ([Extract]): the prefix and postfix markers for the
//     candidate password are searched for directly in the raw buffer.
//     No placement data is consulted, so recovering one message never
//     requires knowing about any other.
//
// Errors:
//
//   - [ErrPlacementExhausted] -- no free slot after [PlacementAttempts]
//     random draws; the block is too small for what is being packed
//   - [ErrMarkerNotFound] -- the candidate password's markers are not
//     in the buffer (wrong password, wrong salt, or foreign data)
//   - [ErrInvalidSettings] -- non-positive block size
package block
