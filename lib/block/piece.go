// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package block

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/plause/lib/entropy"
	"github.com/bureau-foundation/plause/lib/keystream"
)

// PlacementAttempts bounds the random search for a free slot. Dense
// blocks fail fast instead of spinning.
const PlacementAttempts = 16

// ErrPlacementExhausted is returned when every placement attempt
// overlapped an earlier piece or ran past the end of the block.
var ErrPlacementExhausted = errors.New("block: no free slot for piece")

// Piece is one item's marker-wrapped ciphertext and the range
// [Start, End) it occupies in the block. Pieces exist only while a
// block is being built.
type Piece struct {
	Content []byte
	Start   int
	End     int
}

// newPiece encrypts item, wraps it in its markers, and places it clear
// of every piece in placed.
func newPiece(settings Settings, cipher *keystream.Cipher, source entropy.Source, item Item, placed []Piece) (Piece, error) {
	prefix, err := cipher.Marker(settings.SaltPrefix(), item.Password)
	if err != nil {
		return Piece{}, err
	}
	ciphertext, err := cipher.Apply(settings.Salt(), item.Password, item.Content)
	if err != nil {
		return Piece{}, err
	}
	postfix, err := cipher.Marker(settings.SaltPostfix(), item.Password)
	if err != nil {
		return Piece{}, err
	}

	content := make([]byte, 0, len(prefix)+len(ciphertext)+len(postfix))
	content = append(content, prefix...)
	content = append(content, ciphertext...)
	content = append(content, postfix...)

	start, err := findInsertPosition(settings.BlockSize(), len(content), placed, source)
	if err != nil {
		return Piece{}, err
	}

	return Piece{
		Content: content,
		Start:   start,
		End:     start + len(content),
	}, nil
}

func findInsertPosition(blockSize, length int, placed []Piece, source entropy.Source) (int, error) {
	for attempt := 0; attempt < PlacementAttempts; attempt++ {
		start := source.IntN(blockSize)
		if !overlaps(blockSize, start, length, placed) {
			return start, nil
		}
	}
	return 0, fmt.Errorf("%w: %d attempts for a %d-byte piece in a %d-byte block; increase the block size",
		ErrPlacementExhausted, PlacementAttempts, length, blockSize)
}

// overlaps reports whether [start, start+length) conflicts with the
// block boundary or with any placed piece. Both ranges are widened by
// one byte on each side before the intersection test, and no piece
// may reach the last byte of the block.
func overlaps(blockSize, start, length int, placed []Piece) bool {
	end := start + length
	if end > blockSize-1 {
		return true
	}
	for _, piece := range placed {
		if start-1 < piece.End+1 && piece.Start-1 < end+1 {
			return true
		}
	}
	return false
}
