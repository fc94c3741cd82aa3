// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package block

import (
	"fmt"
	"sort"

	"github.com/bureau-foundation/plause/lib/entropy"
	"github.com/bureau-foundation/plause/lib/keystream"
)

// Block is a generated block together with the layout used to build
// it. The layout is never persisted; only Content leaves the process.
type Block struct {
	content []byte
	pieces  []Piece
}

// Content returns the block bytes, exactly Settings.BlockSize() long.
func (b *Block) Content() []byte { return b.content }

// Pieces returns the placed pieces in item order.
func (b *Block) Pieces() []Piece { return b.pieces }

// Build packs items into a new block. Pieces are placed in item order,
// each one clear of all pieces placed before it, so the outcome
// depends on the order of items. Every byte not covered by a piece is
// drawn from source.
func Build(settings Settings, cipher *keystream.Cipher, source entropy.Source, items []Item) (*Block, error) {
	pieces := make([]Piece, 0, len(items))
	for index, item := range items {
		piece, err := newPiece(settings, cipher, source, item, pieces)
		if err != nil {
			return nil, fmt.Errorf("placing item %d: %w", index, err)
		}
		pieces = append(pieces, piece)
	}

	ordered := make([]Piece, len(pieces))
	copy(ordered, pieces)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })

	content := make([]byte, settings.BlockSize())
	cursor := 0
	for _, piece := range ordered {
		source.Read(content[cursor:piece.Start])
		copy(content[piece.Start:piece.End], piece.Content)
		cursor = piece.End
	}
	source.Read(content[cursor:])

	return &Block{content: content, pieces: pieces}, nil
}
