// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret keeps passwords, manifest passphrases, and age
// identities out of the Go heap while plause works with them.
//
// [Buffer] is backed by an anonymous mmap region that is locked into
// RAM (no swap) and excluded from core dumps. Close zeroes, unlocks,
// and unmaps it; any later access panics.
//
// Constructors:
//
//   - [New] -- zero-filled buffer of a given size
//   - [NewFromBytes] -- copies into protected memory, zeroes the source
//   - [ReadFromPath] -- trimmed contents of a file, or one line of stdin
//
// [Buffer.Equal] and [Equal] compare in constant time. [Zero] wipes a
// heap slice that held secret material.
//
// Depends on golang.org/x/sys/unix. No plause-internal dependencies.
package secret
