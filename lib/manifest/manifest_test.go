// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/plause/lib/sealed"
	"github.com/bureau-foundation/plause/lib/secret"
)

func sample() *Manifest {
	return &Manifest{
		Salt:      []byte("abc"),
		Passwords: [][]byte{[]byte("secret1"), []byte("secret2")},
	}
}

func assertEqual(t *testing.T, got, want *Manifest) {
	t.Helper()
	if !bytes.Equal(got.Salt, want.Salt) {
		t.Errorf("salt = %q, want %q", got.Salt, want.Salt)
	}
	if len(got.Passwords) != len(want.Passwords) {
		t.Fatalf("got %d passwords, want %d", len(got.Passwords), len(want.Passwords))
	}
	for index := range want.Passwords {
		if !bytes.Equal(got.Passwords[index], want.Passwords[index]) {
			t.Errorf("password %d = %q, want %q", index, got.Passwords[index], want.Passwords[index])
		}
	}
}

func TestWrite(t *testing.T) {
	var output bytes.Buffer
	if err := sample().Write(&output); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if output.String() != "abc\nsecret1\nsecret2\n" {
		t.Errorf("Write produced %q", output.String())
	}
}

func TestWrite_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		manifest *Manifest
		want     error
	}{
		{"no passwords", &Manifest{Salt: []byte("abc")}, ErrTooShort},
		{"newline in salt", &Manifest{Salt: []byte("a\nb"), Passwords: [][]byte{[]byte("x")}}, ErrInvalidLine},
		{"newline in password", &Manifest{Salt: []byte("abc"), Passwords: [][]byte{[]byte("x\ny")}}, ErrInvalidLine},
		{"empty password", &Manifest{Salt: []byte("abc"), Passwords: [][]byte{{}}}, ErrInvalidLine},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.manifest.Write(&bytes.Buffer{})
			if !errors.Is(err, test.want) {
				t.Errorf("Write error = %v, want %v", err, test.want)
			}
		})
	}
}

func TestWrite_EmptySalt(t *testing.T) {
	var output bytes.Buffer
	m := &Manifest{Passwords: [][]byte{[]byte("secret1")}}
	if err := m.Write(&output); err != nil {
		t.Fatalf("Write: %v", err)
	}
	parsed, err := Parse(output.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parsed.Salt) != 0 {
		t.Errorf("salt = %q, want empty", parsed.Salt)
	}
}

func TestRead(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unix newlines", "abc\nsecret1\nsecret2\n"},
		{"no trailing newline", "abc\nsecret1\nsecret2"},
		{"crlf", "abc\r\nsecret1\r\nsecret2\r\n"},
		{"blank lines skipped", "abc\n\nsecret1\n\nsecret2\n\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			parsed, err := Read(strings.NewReader(test.input))
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			assertEqual(t, parsed, sample())
		})
	}
}

func TestRead_TooShort(t *testing.T) {
	for _, input := range []string{"", "abc", "abc\n", "abc\n\n\n"} {
		if _, err := Read(strings.NewReader(input)); !errors.Is(err, ErrTooShort) {
			t.Errorf("Read(%q) error = %v, want ErrTooShort", input, err)
		}
	}
}

func TestZero(t *testing.T) {
	m := sample()
	salt, password := m.Salt, m.Passwords[0]
	m.Zero()
	if !bytes.Equal(salt, make([]byte, len(salt))) || !bytes.Equal(password, make([]byte, len(password))) {
		t.Error("Zero left secret material behind")
	}
}

func TestWriteFile_ReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pass.key")
	if err := WriteFile(path, sample()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != FileMode {
		t.Errorf("mode = %v, want %v", info.Mode().Perm(), FileMode)
	}

	parsed, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	assertEqual(t, parsed, sample())
}

func TestWriteFile_TightensExistingMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pass.key")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatalf("seeding file: %v", err)
	}
	if err := WriteFile(path, sample()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != FileMode {
		t.Errorf("mode = %v, want %v", info.Mode().Perm(), FileMode)
	}
}

func TestSealFile_Recipients(t *testing.T) {
	keypair, err := sealed.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	defer keypair.Close()

	path := filepath.Join(t.TempDir(), "pass.key")
	if err := SealFile(path, sample(), SealOptions{Recipients: []string{keypair.PublicKey}}); err != nil {
		t.Fatalf("SealFile: %v", err)
	}

	isSealed, err := IsSealedFile(path)
	if err != nil || !isSealed {
		t.Fatalf("IsSealedFile = %v, %v; want true", isSealed, err)
	}
	raw, _ := os.ReadFile(path)
	if bytes.Contains(raw, []byte("secret1")) {
		t.Fatal("sealed manifest contains a password in plaintext")
	}

	if _, err := ReadFile(path); !errors.Is(err, ErrKeyRequired) {
		t.Errorf("ReadFile on sealed manifest error = %v, want ErrKeyRequired", err)
	}

	opened, err := OpenFile(path, OpenOptions{Identity: keypair.PrivateKey})
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	assertEqual(t, opened, sample())
}

func TestSealFile_Passphrase(t *testing.T) {
	passphrase, err := secret.NewFromBytes([]byte("correct horse battery staple"))
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	defer passphrase.Close()

	path := filepath.Join(t.TempDir(), "pass.key")
	options := SealOptions{Passphrase: passphrase, WorkFactor: 10}
	if err := SealFile(path, sample(), options); err != nil {
		t.Fatalf("SealFile: %v", err)
	}

	passphraseSealed, err := IsPassphraseSealedFile(path)
	if err != nil || !passphraseSealed {
		t.Fatalf("IsPassphraseSealedFile = %v, %v; want true", passphraseSealed, err)
	}

	if _, err := OpenFile(path, OpenOptions{}); !errors.Is(err, ErrKeyRequired) {
		t.Errorf("OpenFile without passphrase error = %v, want ErrKeyRequired", err)
	}

	opened, err := OpenFile(path, OpenOptions{Passphrase: passphrase})
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	assertEqual(t, opened, sample())
}

func TestSealFile_ConflictingOptions(t *testing.T) {
	passphrase, err := secret.NewFromBytes([]byte("pw"))
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	defer passphrase.Close()

	options := SealOptions{Recipients: []string{"age1example"}, Passphrase: passphrase}
	if err := SealFile(filepath.Join(t.TempDir(), "pass.key"), sample(), options); err == nil {
		t.Fatal("SealFile with recipients and passphrase should fail")
	}
}

func TestOpenFile_Missing(t *testing.T) {
	if _, err := OpenFile(filepath.Join(t.TempDir(), "missing"), OpenOptions{}); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}
