// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package plause is the entry point for building and reading
// plausible-deniability blocks.
//
// A [Container] collects password-protected messages and packs them
// into one fixed-size block that looks like random noise. Revealing
// one password and its message says nothing about how many other
// messages the block holds, or where.
//
// Encrypting:
//
//	container, err := plause.New(plause.Config{BlockSize: 1 << 20, Salt: salt})
//	container.Add(password1, message1)
//	container.Add(password2, message2)
//	container.Generate()
//	os.WriteFile("output.enc", container.Content(), 0o600)
//
// Decrypting needs only the block, the salt, and one password:
//
//	container, err := plause.New(plause.Config{BlockSize: len(data), Salt: salt})
//	container.Import(data)
//	message, err := container.Extract(password)
//
// Errors are inspectable with errors.Is: [ErrItemTooLarge] and
// [ErrDuplicatePassword] from Add, [ErrPlacementExhausted] from
// Generate, [ErrMarkerNotFound] from Extract, and
// [digest.ErrAlphabetViolation] from either when the digest primitive
// is broken.
package plause
