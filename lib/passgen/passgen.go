// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package passgen generates the random passwords handed out for each
// message packed into a block.
package passgen

import (
	"fmt"

	"github.com/bureau-foundation/plause/lib/entropy"
)

// DefaultLength is the length of generated passwords.
const DefaultLength = 24

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns a password of length characters drawn uniformly from
// [A-Za-z0-9]. The alphabet never contains line breaks, so passwords
// are safe to store one per line.
func Generate(source entropy.Source, length int) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("password length must be positive, got %d", length)
	}
	password := make([]byte, length)
	for index := range password {
		password[index] = alphabet[source.IntN(len(alphabet))]
	}
	return password, nil
}

// GenerateDistinct returns count passwords of the given length, no two
// equal.
func GenerateDistinct(source entropy.Source, count, length int) ([][]byte, error) {
	seen := make(map[string]bool, count)
	passwords := make([][]byte, 0, count)
	for len(passwords) < count {
		password, err := Generate(source, length)
		if err != nil {
			return nil, err
		}
		if seen[string(password)] {
			continue
		}
		seen[string(password)] = true
		passwords = append(passwords, password)
	}
	return passwords, nil
}
