// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keystream

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/plause/lib/digest"
)

// Lanes is the number of parallel hash chains XORed into the keystream.
const Lanes = 16

// Cipher applies the hash-cascade keystream. A Cipher holds no mutable
// state and is safe for concurrent use if its digest is.
type Cipher struct {
	digest digest.Func
}

// New returns a Cipher over the given digest. A nil digest selects
// SHA-256.
func New(function digest.Func) *Cipher {
	if function == nil {
		function = digest.SHA256
	}
	return &Cipher{digest: function}
}

// Apply XORs data with the keystream for (salt, password) and returns
// the result in a new slice of the same length. Apply is its own
// inverse.
func (c *Cipher) Apply(salt, password, data []byte) ([]byte, error) {
	result := make([]byte, len(data))
	if len(data) == 0 {
		return result, nil
	}

	seed := concat(salt, password)
	cascade := make([][]byte, Lanes)
	for lane := range cascade {
		value, err := c.hash(append(seed[:len(seed):len(seed)], byte(lane+1)))
		if err != nil {
			return nil, err
		}
		cascade[lane] = value
	}

	width := len(cascade[0])
	if width == 0 {
		return nil, errors.New("keystream: digest returned no bytes")
	}
	window := make([]byte, width)

	for index, value := range data {
		offset := index % width
		if offset == 0 {
			if err := c.advance(salt, cascade, window); err != nil {
				return nil, err
			}
		}
		result[index] = value ^ window[offset]
	}

	return result, nil
}

// advance moves every lane one step along its chain and recomputes the
// XOR of all lanes into window.
func (c *Cipher) advance(salt []byte, cascade [][]byte, window []byte) error {
	clear(window)
	for lane, previous := range cascade {
		next, err := c.hash(concat(salt, previous))
		if err != nil {
			return err
		}
		if len(next) != len(window) {
			return fmt.Errorf("keystream: digest length changed from %d to %d", len(window), len(next))
		}
		cascade[lane] = next
		for offset, value := range next {
			window[offset] ^= value
		}
	}
	return nil
}

// Marker derives a boundary tag from a marker salt and a password:
// the keystream for (markerSalt, password) applied to
// markerSalt ‖ password. The tag is len(markerSalt)+len(password)
// bytes long.
func (c *Cipher) Marker(markerSalt, password []byte) ([]byte, error) {
	return c.Apply(markerSalt, password, concat(markerSalt, password))
}

func (c *Cipher) hash(input []byte) ([]byte, error) {
	sum, err := c.digest(digest.Latin1(input))
	if err != nil {
		return nil, fmt.Errorf("keystream: %w", err)
	}
	return sum, nil
}

func concat(first, second []byte) []byte {
	result := make([]byte, 0, len(first)+len(second))
	result = append(result, first...)
	return append(result, second...)
}
