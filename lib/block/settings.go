// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package block

import (
	"errors"
	"fmt"
)

// Marker salt constants. Changing either makes every existing block
// unreadable.
const (
	prefixSaltConstant  = "@7@llc05754261933$uFf3r"
	postfixSaltConstant = "11419523LIMin@73pRiv@cY"
)

// ErrInvalidSettings is returned for a block size that cannot hold
// anything.
var ErrInvalidSettings = errors.New("block: invalid settings")

// Settings holds the block size and the salt material derived from the
// user salt. A Settings value is immutable; [Settings.WithSalt] returns
// a new one.
type Settings struct {
	blockSize   int
	salt        []byte
	saltPrefix  []byte
	saltPostfix []byte
}

// NewSettings returns Settings for blocks of blockSize bytes keyed by
// salt. The salt is copied.
func NewSettings(blockSize int, salt []byte) (Settings, error) {
	if blockSize <= 0 {
		return Settings{}, fmt.Errorf("%w: block size must be positive, got %d", ErrInvalidSettings, blockSize)
	}
	return Settings{blockSize: blockSize}.WithSalt(salt), nil
}

// WithSalt returns a copy of s with the salt, and both marker salts
// derived from it, replaced.
func (s Settings) WithSalt(salt []byte) Settings {
	s.salt = append([]byte(nil), salt...)
	s.saltPrefix = append([]byte(prefixSaltConstant), salt...)
	s.saltPostfix = append([]byte(postfixSaltConstant), salt...)
	return s
}

// BlockSize returns the size of every block in bytes.
func (s Settings) BlockSize() int { return s.blockSize }

// Salt returns the user salt. Callers must not modify the result.
func (s Settings) Salt() []byte { return s.salt }

// SaltPrefix returns the prefix-marker salt. Callers must not modify
// the result.
func (s Settings) SaltPrefix() []byte { return s.saltPrefix }

// SaltPostfix returns the postfix-marker salt. Callers must not modify
// the result.
func (s Settings) SaltPostfix() []byte { return s.saltPostfix }
