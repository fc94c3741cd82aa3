// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest reads and writes the password manifest that
// accompanies a plause block.
//
// The manifest is line-oriented text: the first line is the block salt,
// every following line is one item password, in the order the items
// were added. A manifest may be stored plain (mode 0600) or sealed with
// age through lib/sealed; [ReadFile] and [OpenFile] tell the two apart
// by the armor header.
package manifest
