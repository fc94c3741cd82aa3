// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package payload frames item content with optional compression before
// it is hidden in a block, so more plaintext fits in a fixed block
// size.
//
// A frame is one algorithm tag byte, the uvarint length of the original
// content, and the body. [Encode] falls back to [None] when compression
// would not shrink the content. The block layer never sees the framing:
// it handles frames as opaque item content.
package payload
