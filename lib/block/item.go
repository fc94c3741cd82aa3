// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package block

// Item is one plaintext message and the password that hides it.
type Item struct {
	Password []byte
	Content  []byte
}

// NewItem returns an Item holding copies of password and content.
func NewItem(password, content []byte) Item {
	return Item{
		Password: append([]byte(nil), password...),
		Content:  append([]byte(nil), content...),
	}
}
