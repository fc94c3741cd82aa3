// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package entropy

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	mathrand "math/rand/v2"
)

// Source supplies uniformly distributed randomness.
type Source interface {
	// IntN returns a uniform value in [0, n). Panics if n <= 0.
	IntN(n int) int

	// Read fills p with independently drawn random bytes.
	Read(p []byte)
}

// Crypto returns a Source backed by crypto/rand.
func Crypto() Source {
	return cryptoSource{rng: mathrand.New(cryptoUint64{})}
}

type cryptoSource struct {
	rng *mathrand.Rand
}

func (s cryptoSource) IntN(n int) int { return s.rng.IntN(n) }

func (cryptoSource) Read(p []byte) {
	// crypto/rand.Read never returns an error on supported platforms.
	cryptorand.Read(p)
}

// cryptoUint64 adapts crypto/rand to mathrand.Source so IntN gets
// math/rand's unbiased range reduction.
type cryptoUint64 struct{}

func (cryptoUint64) Uint64() uint64 {
	var buffer [8]byte
	cryptorand.Read(buffer[:])
	return binary.LittleEndian.Uint64(buffer[:])
}

// Seeded returns a deterministic Source. Two Sources created with the
// same seed produce the same sequence of draws.
func Seeded(seed uint64) Source {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	chacha := mathrand.NewChaCha8(key)
	return &seededSource{chacha: chacha, rng: mathrand.New(chacha)}
}

type seededSource struct {
	chacha *mathrand.ChaCha8
	rng    *mathrand.Rand
}

func (s *seededSource) IntN(n int) int { return s.rng.IntN(n) }

func (s *seededSource) Read(p []byte) {
	// ChaCha8.Read never fails.
	s.chacha.Read(p)
}
