// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package plause

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/bureau-foundation/plause/lib/block"
	"github.com/bureau-foundation/plause/lib/digest"
	"github.com/bureau-foundation/plause/lib/entropy"
	"github.com/bureau-foundation/plause/lib/keystream"
)

var (
	// ErrItemTooLarge is returned by Add when a message is longer than
	// the block.
	ErrItemTooLarge = errors.New("plause: item larger than block size")

	// ErrDuplicatePassword is returned by Add when the password is
	// already in use. Two items sharing a password share markers,
	// which would reveal where both begin and end.
	ErrDuplicatePassword = errors.New("plause: password already used by another item")

	// ErrPlacementExhausted is returned by Generate when the items do
	// not fit. Use a bigger block or fewer, smaller items.
	ErrPlacementExhausted = block.ErrPlacementExhausted

	// ErrMarkerNotFound is returned by Extract when the block holds no
	// message for the password.
	ErrMarkerNotFound = block.ErrMarkerNotFound
)

// Config configures a Container.
type Config struct {
	// BlockSize is the exact size of generated blocks in bytes.
	BlockSize int

	// Salt keys every message in the block. It is copied.
	Salt []byte

	// Digest is the hash primitive under the keystream. Defaults to
	// digest.SHA256. Blocks can only be read with the digest that
	// wrote them.
	Digest digest.Func

	// Source supplies placement draws and padding bytes. Defaults to
	// entropy.Crypto().
	Source entropy.Source
}

// Container holds the settings, the queued items, and the current block
// content. A Container is not safe for concurrent use.
type Container struct {
	settings block.Settings
	cipher   *keystream.Cipher
	source   entropy.Source
	items    []block.Item
	content  []byte
}

// New returns an empty Container.
func New(config Config) (*Container, error) {
	settings, err := block.NewSettings(config.BlockSize, config.Salt)
	if err != nil {
		return nil, err
	}
	if config.Source == nil {
		config.Source = entropy.Crypto()
	}
	return &Container{
		settings: settings,
		cipher:   keystream.New(config.Digest),
		source:   config.Source,
	}, nil
}

// Add queues a message for the next Generate. The password and content
// are copied.
func (c *Container) Add(password, content []byte) error {
	if len(content) > c.settings.BlockSize() {
		return fmt.Errorf("%w: %d bytes, block size %d", ErrItemTooLarge, len(content), c.settings.BlockSize())
	}
	for index, item := range c.items {
		if len(item.Password) == len(password) && subtle.ConstantTimeCompare(item.Password, password) == 1 {
			return fmt.Errorf("%w: same as item %d", ErrDuplicatePassword, index)
		}
	}
	c.items = append(c.items, block.NewItem(password, content))
	return nil
}

// Generate packs the queued items into a fresh block and makes it the
// Container's content. Piece placement is discarded.
func (c *Container) Generate() error {
	generated, err := block.Build(c.settings, c.cipher, c.source, c.items)
	if err != nil {
		return err
	}
	c.content = generated.Content()
	return nil
}

// Import replaces the content with an existing block for Extract. The
// bytes are used as-is and no items are required.
func (c *Container) Import(content []byte) {
	c.content = append([]byte(nil), content...)
}

// SetSalt replaces the salt, and the marker salts derived from it.
// Used when the salt of an imported block comes from its manifest.
func (c *Container) SetSalt(salt []byte) {
	c.settings = c.settings.WithSalt(salt)
}

// Extract returns the message hidden under password in the current
// content.
func (c *Container) Extract(password []byte) ([]byte, error) {
	return block.Extract(c.settings, c.cipher, c.content, password)
}

// Passwords returns the passwords of the queued items in the order
// they were added.
func (c *Container) Passwords() [][]byte {
	passwords := make([][]byte, len(c.items))
	for index, item := range c.items {
		passwords[index] = append([]byte(nil), item.Password...)
	}
	return passwords
}

// Content returns the current block: the output of the last Generate,
// or the bytes passed to Import. Callers must not modify the result.
func (c *Container) Content() []byte { return c.content }

// Len returns the number of queued items.
func (c *Container) Len() int { return len(c.items) }

// Settings returns the Container's current settings.
func (c *Container) Settings() block.Settings { return c.settings }
