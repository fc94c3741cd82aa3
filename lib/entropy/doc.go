// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package entropy provides an injectable random source for block
// generation and password generation.
//
// Production code accepts a [Source] instead of reaching for a global
// generator. Block placement draws, padding bytes, and generated
// passwords all come from the Source handed in by the caller, so a
// test can replay an exact block by seeding it.
//
// # Wiring Pattern
//
// In production:
//
//	container, err := plause.New(plause.Config{
//	    BlockSize: 1 << 20,
//	    Salt:      salt,
//	    Source:    entropy.Crypto(),
//	})
//
// In tests:
//
//	source := entropy.Seeded(42)
//	container, err := plause.New(plause.Config{..., Source: source})
//
// [Crypto] reads the operating system CSPRNG and is safe for
// concurrent use. [Seeded] is a ChaCha8 stream from math/rand/v2; it
// is deterministic and must not be shared between goroutines.
package entropy
