// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package keystream implements the plause hash-cascade stream cipher.
//
// The keystream for (salt, password) is built from 16 independent
// hash chains ("lanes"). Lane r starts as H(salt ‖ password ‖ r+1).
// At the start of every digest-length window each lane advances to
// H(salt ‖ lane), and the keystream byte at position i is the XOR of
// every lane's byte at i mod digest length.
//
// The keystream depends only on (salt, password, position), so
// [Cipher.Apply] is an involution: applying it twice with the same
// salt and password to data of the same length returns the original
// data.
//
// [Cipher.Marker] derives the prefix and postfix boundary tags that
// locate a message inside a block.
//
// This is a custom construction, not a vetted cipher.
package keystream
