// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Func computes the digest of input and returns its raw bytes. Every
// call must return the same number of bytes for a given Func.
type Func func(input []byte) ([]byte, error)

// ErrAlphabetViolation is returned when a hex-string digest primitive
// produces a character outside 0-9a-f. It signals a broken primitive,
// not bad user input.
var ErrAlphabetViolation = errors.New("digest: hex rendering outside [0-9a-f]")

// Default is the digest used when none is configured.
const Default = "sha256"

// SHA256 returns the SHA-256 digest of input.
func SHA256(input []byte) ([]byte, error) {
	sum := sha256.Sum256(input)
	return sum[:], nil
}

// BLAKE3 returns the 256-bit BLAKE3 digest of input.
func BLAKE3(input []byte) ([]byte, error) {
	sum := blake3.Sum256(input)
	return sum[:], nil
}

// BLAKE2b256 returns the BLAKE2b-256 digest of input.
func BLAKE2b256(input []byte) ([]byte, error) {
	sum := blake2b.Sum256(input)
	return sum[:], nil
}

// SHA3256 returns the SHA3-256 digest of input.
func SHA3256(input []byte) ([]byte, error) {
	sum := sha3.Sum256(input)
	return sum[:], nil
}

var registry = map[string]Func{
	"sha256":      SHA256,
	"blake3":      BLAKE3,
	"blake2b-256": BLAKE2b256,
	"sha3-256":    SHA3256,
}

// Lookup returns the digest registered under name.
func Lookup(name string) (Func, error) {
	function, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown digest %q (available: %v)", name, Names())
	}
	return function, nil
}

// Names returns the registered digest names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Hex adapts a primitive that renders its digest as hex text. The text
// is decoded two characters per byte. Upper-case letters, any other
// character, or an odd-length rendering yield ErrAlphabetViolation.
func Hex(render func(input string) string) Func {
	return func(input []byte) ([]byte, error) {
		return decodeLowerHex(render(string(input)))
	}
}

func decodeLowerHex(text string) ([]byte, error) {
	if len(text)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %d", ErrAlphabetViolation, len(text))
	}
	result := make([]byte, len(text)/2)
	for index := 0; index < len(text); index += 2 {
		high, err := nibble(text[index])
		if err != nil {
			return nil, err
		}
		low, err := nibble(text[index+1])
		if err != nil {
			return nil, err
		}
		result[index/2] = high<<4 | low
	}
	return result, nil
}

func nibble(character byte) (byte, error) {
	switch {
	case character >= '0' && character <= '9':
		return character - '0', nil
	case character >= 'a' && character <= 'f':
		return character - 'a' + 10, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrAlphabetViolation, character)
	}
}

// Latin1 returns input with every byte widened to the Latin-1 code
// point of the same value and UTF-8 encoded. ASCII input is returned
// unchanged (as a copy).
func Latin1(input []byte) []byte {
	size := len(input)
	for _, value := range input {
		if value >= utf8.RuneSelf {
			size++
		}
	}
	result := make([]byte, 0, size)
	for _, value := range input {
		result = utf8.AppendRune(result, rune(value))
	}
	return result
}
