// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/bureau-foundation/plause/cmd/plause/cli"
	"github.com/bureau-foundation/plause/lib/config"
	"github.com/bureau-foundation/plause/lib/manifest"
	"github.com/bureau-foundation/plause/lib/plause"
)

var passwordPattern = regexp.MustCompile(`^[A-Za-z0-9]{24}$`)

type harness struct {
	t      *testing.T
	dir    string
	stdin  string
	stdout bytes.Buffer
	stderr bytes.Buffer
	logs   bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv(config.EnvironmentVariable, "")
	return &harness{t: t, dir: t.TempDir()}
}

func (h *harness) path(name string) string {
	return filepath.Join(h.dir, name)
}

func (h *harness) write(name, content string) string {
	h.t.Helper()
	path := h.path(name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		h.t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func (h *harness) read(name string) string {
	h.t.Helper()
	data, err := os.ReadFile(h.path(name))
	if err != nil {
		h.t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

func (h *harness) execute(args ...string) error {
	h.stdout.Reset()
	env := &environment{
		stdin:  strings.NewReader(h.stdin),
		stdout: &h.stdout,
		stderr: &h.stderr,
		newLogger: func(verbose bool) *slog.Logger {
			return cli.NewLogger(&h.logs, false, verbose)
		},
	}
	return root(env).Execute(args)
}

func (h *harness) mustExecute(args ...string) {
	h.t.Helper()
	if err := h.execute(args...); err != nil {
		h.t.Fatalf("plause %s: %v\nlogs:\n%s", strings.Join(args, " "), err, h.logs.String())
	}
}

// blockFlags points the block and manifest into the harness directory.
func (h *harness) blockFlags(extra ...string) []string {
	return append([]string{"-E", h.path("output.enc"), "-P", h.path("pass.key")}, extra...)
}

func TestEncryptDecrypt_Files(t *testing.T) {
	h := newHarness(t)
	first := h.write("first.txt", "hello")
	second := h.write("second.txt", "world")

	h.mustExecute(append([]string{"encrypt", "-b", "1024", "-s", "abc", "--seed", "1"},
		h.blockFlags(first, second)...)...)

	if block := h.read("output.enc"); len(block) != 1024 {
		t.Fatalf("block is %d bytes, want 1024", len(block))
	}

	lines := strings.Split(strings.TrimSuffix(h.read("pass.key"), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("manifest has %d lines, want 3: %q", len(lines), lines)
	}
	if lines[0] != "abc" {
		t.Errorf("manifest salt = %q, want abc", lines[0])
	}
	for _, password := range lines[1:] {
		if !passwordPattern.MatchString(password) {
			t.Errorf("generated password %q is not 24 alphanumerics", password)
		}
	}
	if strings.Contains(h.logs.String(), lines[1]) {
		t.Error("a password appeared in the logs")
	}

	// The salt comes from the manifest, not from -s.
	h.mustExecute(append([]string{"decrypt", "-b", "1024"}, h.blockFlags(h.path("out"))...)...)
	if got := h.read("out.0"); got != "hello" {
		t.Errorf("out.0 = %q, want hello", got)
	}
	if got := h.read("out.1"); got != "world" {
		t.Errorf("out.1 = %q, want world", got)
	}
}

func TestEncryptDecrypt_SingleItemUsesPrefix(t *testing.T) {
	h := newHarness(t)
	only := h.write("only.txt", "just one")

	h.mustExecute(append([]string{"encrypt", "-b", "512", "--seed", "2"}, h.blockFlags(only)...)...)
	h.mustExecute(append([]string{"decrypt", "-b", "512"}, h.blockFlags(h.path("plain"))...)...)

	if got := h.read("plain"); got != "just one" {
		t.Errorf("plain = %q", got)
	}
	if _, err := os.Stat(h.path("plain.0")); !os.IsNotExist(err) {
		t.Error("single-item decrypt should not use an index suffix")
	}
}

func TestEncrypt_SeedIsDeterministic(t *testing.T) {
	h := newHarness(t)
	item := h.write("item.txt", "same every time")

	h.mustExecute(append([]string{"encrypt", "-b", "256", "--seed", "42"}, h.blockFlags(item)...)...)
	firstBlock, firstManifest := h.read("output.enc"), h.read("pass.key")

	h.mustExecute(append([]string{"encrypt", "-b", "256", "--seed", "42"}, h.blockFlags(item)...)...)
	if h.read("output.enc") != firstBlock || h.read("pass.key") != firstManifest {
		t.Error("the same seed produced different output")
	}

	h.mustExecute(append([]string{"encrypt", "-b", "256", "--seed", "43"}, h.blockFlags(item)...)...)
	if h.read("output.enc") == firstBlock {
		t.Error("different seeds produced the same block")
	}
}

func TestInteractive(t *testing.T) {
	h := newHarness(t)
	h.stdin = "first line\r\n\nthird line\n"

	h.mustExecute(append([]string{"interactive", "-b", "2048", "--seed", "3"}, h.blockFlags()...)...)
	h.mustExecute(append([]string{"decrypt", "-b", "2048"}, h.blockFlags(h.path("line"))...)...)

	want := []string{"first line", "", "third line"}
	for index, expected := range want {
		name := "line." + string(rune('0'+index))
		if got := h.read(name); got != expected {
			t.Errorf("%s = %q, want %q", name, got, expected)
		}
	}
}

func TestInteractive_NoInput(t *testing.T) {
	h := newHarness(t)
	if err := h.execute(append([]string{"interactive"}, h.blockFlags()...)...); err == nil {
		t.Fatal("expected error for empty stdin")
	}
}

func TestEncryptDecrypt_Compression(t *testing.T) {
	h := newHarness(t)
	text := strings.Repeat("plausible deniability for love and friendship\n", 100)
	item := h.write("long.txt", text)

	// Uncompressed the text does not fit in 1024 bytes.
	h.mustExecute(append([]string{"encrypt", "-b", "1024", "--compress", "zstd", "--seed", "4"}, h.blockFlags(item)...)...)
	h.mustExecute(append([]string{"decrypt", "-b", "1024", "--decompress"}, h.blockFlags(h.path("long.dec"))...)...)

	if got := h.read("long.dec"); got != text {
		t.Errorf("decompressed item differs from the original (%d vs %d bytes)", len(got), len(text))
	}
}

func TestEncrypt_ItemTooLarge(t *testing.T) {
	h := newHarness(t)
	item := h.write("big.txt", strings.Repeat("x", 100))

	err := h.execute(append([]string{"encrypt", "-b", "16"}, h.blockFlags(item)...)...)
	if !errors.Is(err, plause.ErrItemTooLarge) {
		t.Fatalf("error = %v, want ErrItemTooLarge", err)
	}
}

func TestEncrypt_RequiresFiles(t *testing.T) {
	h := newHarness(t)
	if err := h.execute(append([]string{"encrypt"}, h.blockFlags()...)...); err == nil {
		t.Fatal("expected error without files")
	}
}

func TestEncrypt_InvalidDigest(t *testing.T) {
	h := newHarness(t)
	item := h.write("item.txt", "x")
	err := h.execute(append([]string{"encrypt", "--digest", "md5"}, h.blockFlags(item)...)...)
	if err == nil || !strings.Contains(err.Error(), "digest") {
		t.Fatalf("error = %v, want a digest validation error", err)
	}
}

func TestDecrypt_PartialFailure(t *testing.T) {
	h := newHarness(t)
	item := h.write("item.txt", "survivor")

	h.mustExecute(append([]string{"encrypt", "-b", "512", "--seed", "5"}, h.blockFlags(item)...)...)
	manifestText := h.read("pass.key") + "NotARealPassword12345678\n"
	h.write("pass.key", manifestText)

	err := h.execute(append([]string{"decrypt", "-b", "512"}, h.blockFlags(h.path("out"))...)...)
	var exitError *cli.ExitError
	if !errors.As(err, &exitError) || exitError.Code != exitPartial {
		t.Fatalf("error = %v, want exit code %d", err, exitPartial)
	}
	if got := h.read("out.0"); got != "survivor" {
		t.Errorf("out.0 = %q, want survivor", got)
	}
	if _, err := os.Stat(h.path("out.1")); !os.IsNotExist(err) {
		t.Error("a failed password should not produce an output file")
	}
}

func TestDecrypt_WrongSalt(t *testing.T) {
	h := newHarness(t)
	item := h.write("item.txt", "hidden")

	h.mustExecute(append([]string{"encrypt", "-b", "512", "-s", "right", "--seed", "6"}, h.blockFlags(item)...)...)
	lines := strings.SplitN(h.read("pass.key"), "\n", 2)
	h.write("pass.key", "wrong\n"+lines[1])

	err := h.execute(append([]string{"decrypt", "-b", "512"}, h.blockFlags(h.path("out"))...)...)
	if err == nil || !strings.Contains(err.Error(), "no item could be extracted") {
		t.Fatalf("error = %v, want extraction failure", err)
	}
}

func TestDecrypt_DigestMismatch(t *testing.T) {
	h := newHarness(t)
	item := h.write("item.txt", "hidden")

	h.mustExecute(append([]string{"encrypt", "-b", "512", "--digest", "blake3", "--seed", "7"}, h.blockFlags(item)...)...)
	if err := h.execute(append([]string{"decrypt", "-b", "512"}, h.blockFlags(h.path("out"))...)...); err == nil {
		t.Fatal("decrypting a blake3 block with sha256 should fail")
	}
	h.mustExecute(append([]string{"decrypt", "-b", "512", "--digest", "blake3"}, h.blockFlags(h.path("out"))...)...)
	if got := h.read("out"); got != "hidden" {
		t.Errorf("out = %q, want hidden", got)
	}
}

func TestDecrypt_ManifestTooShort(t *testing.T) {
	h := newHarness(t)
	h.write("output.enc", strings.Repeat("\x00", 64))
	h.write("pass.key", "saltonly\n")

	err := h.execute(append([]string{"decrypt", "-b", "64"}, h.blockFlags()...)...)
	if !errors.Is(err, manifest.ErrTooShort) {
		t.Fatalf("error = %v, want ErrTooShort", err)
	}
}

func TestSealedManifest_AgeRecipient(t *testing.T) {
	h := newHarness(t)
	item := h.write("item.txt", "sealed away")

	h.mustExecute("keygen", "-o", h.path("key.txt"))
	publicKey := strings.TrimSpace(h.stdout.String())
	if !strings.HasPrefix(publicKey, "age1") {
		t.Fatalf("keygen printed %q, want an age1 public key", publicKey)
	}
	info, err := os.Stat(h.path("key.txt"))
	if err != nil {
		t.Fatalf("identity file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("identity file mode = %v, want 0600", info.Mode().Perm())
	}

	h.mustExecute(append([]string{"encrypt", "-b", "512", "--seal-to", publicKey, "--seed", "8"}, h.blockFlags(item)...)...)
	if !strings.HasPrefix(h.read("pass.key"), "-----BEGIN AGE ENCRYPTED FILE-----") {
		t.Fatal("manifest is not age-armored")
	}

	err = h.execute(append([]string{"decrypt", "-b", "512"}, h.blockFlags(h.path("out"))...)...)
	if !errors.Is(err, manifest.ErrKeyRequired) {
		t.Fatalf("decrypt without identity error = %v, want ErrKeyRequired", err)
	}

	h.mustExecute(append([]string{"decrypt", "-b", "512", "--identity", h.path("key.txt")}, h.blockFlags(h.path("out"))...)...)
	if got := h.read("out"); got != "sealed away" {
		t.Errorf("out = %q", got)
	}
}

func TestSealedManifest_Passphrase(t *testing.T) {
	h := newHarness(t)
	item := h.write("item.txt", "behind a passphrase")
	passphrase := h.write("passphrase.txt", "correct horse battery staple\n")
	configPath := h.write("plause.yaml", "block_size: 512\nseal:\n  work_factor: 10\n")

	h.mustExecute(append([]string{"encrypt", "--config", configPath, "--passphrase-file", passphrase, "--seed", "9"},
		h.blockFlags(item)...)...)
	if !strings.HasPrefix(h.read("pass.key"), "-----BEGIN AGE ENCRYPTED FILE-----") {
		t.Fatal("manifest is not age-armored")
	}

	h.mustExecute(append([]string{"decrypt", "--config", configPath, "--passphrase-file", passphrase},
		h.blockFlags(h.path("out"))...)...)
	if got := h.read("out"); got != "behind a passphrase" {
		t.Errorf("out = %q", got)
	}
}

func TestConfigFile_FlagsOverride(t *testing.T) {
	h := newHarness(t)
	item := h.write("item.txt", "configured")
	configPath := h.write("plause.jsonc", `{
  // Shared by encrypt and decrypt.
  "block_size": 2048,
  "salt": "from-config",
  "digest": "sha3-256",
}`)
	t.Setenv(config.EnvironmentVariable, configPath)

	h.mustExecute(append([]string{"encrypt", "-b", "300", "--seed", "10"}, h.blockFlags(item)...)...)
	if block := h.read("output.enc"); len(block) != 300 {
		t.Errorf("block is %d bytes, want the flag's 300", len(block))
	}
	if salt := strings.SplitN(h.read("pass.key"), "\n", 2)[0]; salt != "from-config" {
		t.Errorf("salt = %q, want from-config", salt)
	}

	h.mustExecute(append([]string{"decrypt", "-b", "300"}, h.blockFlags(h.path("out"))...)...)
	if got := h.read("out"); got != "configured" {
		t.Errorf("out = %q", got)
	}
}

func TestKeygen_Stdout(t *testing.T) {
	h := newHarness(t)
	h.mustExecute("keygen")

	output := h.stdout.String()
	if !strings.Contains(output, "# public key: age1") || !strings.Contains(output, "AGE-SECRET-KEY-1") {
		t.Errorf("unexpected keygen output:\n%s", output)
	}
}

func TestKeygen_RefusesOverwrite(t *testing.T) {
	h := newHarness(t)
	existing := h.write("key.txt", "keep me")
	if err := h.execute("keygen", "-o", existing); err == nil {
		t.Fatal("keygen should not overwrite an existing identity file")
	}
	if h.read("key.txt") != "keep me" {
		t.Error("existing identity file was modified")
	}
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	h.mustExecute("version")
	if !strings.HasPrefix(h.stdout.String(), "plause ") {
		t.Errorf("version output = %q", h.stdout.String())
	}

	h.mustExecute("version", "--verbose")
	for _, want := range []string{"Digests:", "sha256", "BLAKE3:"} {
		if !strings.Contains(h.stdout.String(), want) {
			t.Errorf("verbose version output missing %q:\n%s", want, h.stdout.String())
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)
	err := h.execute("decrpyt")
	if err == nil || !strings.Contains(err.Error(), `did you mean "decrypt"`) {
		t.Fatalf("error = %v, want a suggestion", err)
	}
}
