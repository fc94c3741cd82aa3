// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Plause packs several independently encrypted messages into one
// fixed-size block of random-looking bytes. Each message is recoverable
// only with its own password, and nothing in the block reveals how many
// messages it holds.
//
// Commands:
//
//	plause encrypt FILE...       one item per file
//	plause interactive           one item per stdin line
//	plause decrypt [PREFIX]      extract every item listed in the manifest
//	plause keygen                age keypair for sealing manifests
//	plause version               build information
//
// Encryption writes the block (default output.enc) and a password
// manifest (default pass.key): the salt on the first line, then one
// generated password per item. The manifest can be sealed with age to
// public keys (--seal-to) or a passphrase (--passphrase).
//
// Configuration comes from --config or PLAUSE_CONFIG; flags override
// it.
package main
