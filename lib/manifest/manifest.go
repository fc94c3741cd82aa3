// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/plause/lib/secret"
)

// FileMode is the permission used for every manifest written to disk.
const FileMode os.FileMode = 0600

var (
	// ErrTooShort means the manifest has a salt line but no password.
	ErrTooShort = errors.New("manifest: salt and password(s) required")

	// ErrInvalidLine means a salt or password cannot be stored on a
	// single manifest line.
	ErrInvalidLine = errors.New("manifest: value must be a non-empty single line")

	// ErrKeyRequired means the manifest is sealed and no matching key
	// material was supplied.
	ErrKeyRequired = errors.New("manifest: sealed manifest needs an identity or passphrase")
)

// Manifest is the salt of a block plus the password of every item in
// it.
type Manifest struct {
	Salt      []byte
	Passwords [][]byte
}

// Zero wipes the salt and every password in place.
func (m *Manifest) Zero() {
	secret.Zero(m.Salt)
	for _, password := range m.Passwords {
		secret.Zero(password)
	}
}

// Write emits the salt line followed by one line per password, each
// terminated by a newline.
func (m *Manifest) Write(writer io.Writer) error {
	if err := checkLine(m.Salt, true); err != nil {
		return fmt.Errorf("salt: %w", err)
	}
	if len(m.Passwords) == 0 {
		return ErrTooShort
	}

	buffered := bufio.NewWriter(writer)
	buffered.Write(m.Salt)
	buffered.WriteByte('\n')
	for index, password := range m.Passwords {
		if err := checkLine(password, false); err != nil {
			return fmt.Errorf("password %d: %w", index, err)
		}
		buffered.Write(password)
		buffered.WriteByte('\n')
	}
	return buffered.Flush()
}

// Bytes returns the encoded manifest.
func (m *Manifest) Bytes() ([]byte, error) {
	var encoded bytes.Buffer
	if err := m.Write(&encoded); err != nil {
		return nil, err
	}
	return encoded.Bytes(), nil
}

// checkLine rejects values that would not survive a Write/Read round
// trip. The salt may be empty; passwords may not.
func checkLine(value []byte, allowEmpty bool) error {
	if len(value) == 0 && !allowEmpty {
		return ErrInvalidLine
	}
	if bytes.ContainsAny(value, "\r\n") {
		return ErrInvalidLine
	}
	return nil
}

// Read parses a manifest. The first line is the salt; every following
// non-empty line is a password. Trailing carriage returns are stripped.
func Read(reader io.Reader) (*Manifest, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading manifest: %w", err)
		}
		return nil, ErrTooShort
	}
	result := &Manifest{Salt: bytes.Clone(trimLine(scanner.Bytes()))}

	for scanner.Scan() {
		line := trimLine(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		result.Passwords = append(result.Passwords, bytes.Clone(line))
	}
	if err := scanner.Err(); err != nil {
		result.Zero()
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	if len(result.Passwords) == 0 {
		return nil, ErrTooShort
	}
	return result, nil
}

func trimLine(line []byte) []byte {
	return bytes.TrimSuffix(line, []byte("\r"))
}

// Parse decodes a manifest held in memory.
func Parse(data []byte) (*Manifest, error) {
	return Read(bytes.NewReader(data))
}

// WriteFile writes a plain manifest with mode 0600, replacing any
// existing file.
func WriteFile(path string, m *Manifest) error {
	encoded, err := m.Bytes()
	if err != nil {
		return err
	}
	defer secret.Zero(encoded)
	return writeFile(path, encoded)
}

// ReadFile reads a plain manifest. A sealed manifest yields
// ErrKeyRequired; use OpenFile for those.
func ReadFile(path string) (*Manifest, error) {
	return OpenFile(path, OpenOptions{})
}

func writeFile(path string, data []byte) error {
	// WriteFile only applies the mode on creation.
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FileMode)
	if err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := file.Chmod(FileMode); err != nil {
		file.Close()
		return fmt.Errorf("writing manifest: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
