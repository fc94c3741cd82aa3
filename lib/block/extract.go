// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package block

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bureau-foundation/plause/lib/keystream"
)

// ErrMarkerNotFound is returned when a block does not hold a message
// for the candidate password. This is the expected result of trying a
// wrong password.
var ErrMarkerNotFound = errors.New("block: marker not found")

// Extract recovers the message hidden under password in content. It
// searches content for the password's prefix and postfix markers
// (first match of each wins) and decrypts the bytes between them.
// Extract never needs to know where, or whether, other messages are
// stored.
func Extract(settings Settings, cipher *keystream.Cipher, content, password []byte) ([]byte, error) {
	prefix, err := cipher.Marker(settings.SaltPrefix(), password)
	if err != nil {
		return nil, err
	}
	postfix, err := cipher.Marker(settings.SaltPostfix(), password)
	if err != nil {
		return nil, err
	}

	prefixStart := bytes.Index(content, prefix)
	if prefixStart < 0 {
		return nil, fmt.Errorf("%w: no prefix marker", ErrMarkerNotFound)
	}
	begin := prefixStart + len(prefix)

	end := bytes.Index(content, postfix)
	if end < 0 {
		return nil, fmt.Errorf("%w: no postfix marker", ErrMarkerNotFound)
	}
	if end < begin {
		return nil, fmt.Errorf("%w: postfix marker at %d precedes end of prefix marker at %d",
			ErrMarkerNotFound, end, begin)
	}

	return cipher.Apply(settings.Salt(), password, content[begin:end])
}
