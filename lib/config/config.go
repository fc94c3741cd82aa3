// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/plause/lib/digest"
	"github.com/bureau-foundation/plause/lib/passgen"
	"github.com/bureau-foundation/plause/lib/payload"
	"github.com/bureau-foundation/plause/lib/sealed"
)

// EnvironmentVariable names the variable Load reads the config path
// from.
const EnvironmentVariable = "PLAUSE_CONFIG"

// Config is the complete plause configuration.
type Config struct {
	// BlockSize is the exact length of every block written, in bytes.
	// Default: 1048576 (1 MiB)
	BlockSize int `yaml:"block_size"`

	// Salt is the block salt. It is written to the manifest in clear.
	// Default: saltysaltsalt
	Salt string `yaml:"salt"`

	// Digest selects the keystream hash: sha256, blake3, blake2b-256,
	// or sha3-256. Default: sha256
	Digest string `yaml:"digest"`

	// PasswordLength is the length of generated item passwords.
	// Default: 24
	PasswordLength int `yaml:"password_length"`

	// Compression frames item content before hiding it: none, lz4, or
	// zstd. Default: none
	Compression string `yaml:"compression"`

	// Paths configures the default file locations.
	Paths PathsConfig `yaml:"paths"`

	// Seal configures age encryption of the password manifest.
	Seal SealConfig `yaml:"seal"`
}

// PathsConfig configures file locations.
type PathsConfig struct {
	// Block is where encrypt writes and decrypt reads the block.
	// Default: output.enc
	Block string `yaml:"block"`

	// Manifest is the password manifest file.
	// Default: pass.key
	Manifest string `yaml:"manifest"`

	// Output is the prefix decrypt writes extracted items to.
	// Default: output.dec
	Output string `yaml:"output"`
}

// SealConfig configures manifest sealing. With no recipients and
// Passphrase unset, manifests are written in plain text (mode 0600).
type SealConfig struct {
	// Recipients are age x25519 public keys (age1...).
	Recipients []string `yaml:"recipients"`

	// IdentityFile is the age identity file used to open sealed
	// manifests.
	IdentityFile string `yaml:"identity_file"`

	// Passphrase seals with a prompted passphrase instead of public
	// keys.
	Passphrase bool `yaml:"passphrase"`

	// WorkFactor is the scrypt log2(N) for passphrase sealing. Zero
	// selects the age default.
	WorkFactor int `yaml:"work_factor"`
}

// Sealing reports whether manifests should be sealed.
func (s SealConfig) Sealing() bool {
	return len(s.Recipients) > 0 || s.Passphrase
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BlockSize:      1 << 20,
		Salt:           "saltysaltsalt",
		Digest:         digest.Default,
		PasswordLength: passgen.DefaultLength,
		Compression:    payload.None.String(),
		Paths: PathsConfig{
			Block:    "output.enc",
			Manifest: "pass.key",
			Output:   "output.dec",
		},
	}
}

// Load loads configuration from the file named by PLAUSE_CONFIG. It
// fails when the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your plause.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// Resolve picks the configuration source: an explicit path wins, then
// PLAUSE_CONFIG, then Default.
func Resolve(explicitPath string) (*Config, error) {
	if explicitPath != "" {
		return LoadFile(explicitPath)
	}
	if os.Getenv(EnvironmentVariable) != "" {
		return Load()
	}
	cfg := Default()
	cfg.expandVariables()
	return cfg, nil
}

// LoadFile loads configuration from path on top of Default.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// JSON is a subset of YAML, so stripped JSONC decodes with the same
	// yaml tags.
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Paths.Block = expandVars(c.Paths.Block, vars)
	c.Paths.Manifest = expandVars(c.Paths.Manifest, vars)
	c.Paths.Output = expandVars(c.Paths.Output, vars)
	c.Seal.IdentityFile = expandVars(c.Seal.IdentityFile, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, consulting
// vars before the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.BlockSize <= 0 {
		errs = append(errs, fmt.Errorf("block_size must be positive, got %d", c.BlockSize))
	}
	if _, err := digest.Lookup(c.Digest); err != nil {
		errs = append(errs, fmt.Errorf("digest: %w", err))
	}
	if c.PasswordLength <= 0 {
		errs = append(errs, fmt.Errorf("password_length must be positive, got %d", c.PasswordLength))
	}
	if _, err := payload.ParseAlgorithm(c.Compression); err != nil {
		errs = append(errs, fmt.Errorf("compression: %w", err))
	}
	if strings.ContainsAny(c.Salt, "\r\n") {
		errs = append(errs, fmt.Errorf("salt must be a single line"))
	}

	if c.Paths.Block == "" {
		errs = append(errs, fmt.Errorf("paths.block is required"))
	}
	if c.Paths.Manifest == "" {
		errs = append(errs, fmt.Errorf("paths.manifest is required"))
	}
	if c.Paths.Output == "" {
		errs = append(errs, fmt.Errorf("paths.output is required"))
	}

	if len(c.Seal.Recipients) > 0 && c.Seal.Passphrase {
		errs = append(errs, fmt.Errorf("seal.recipients and seal.passphrase are mutually exclusive"))
	}
	for _, recipient := range c.Seal.Recipients {
		if err := sealed.ParsePublicKey(recipient); err != nil {
			errs = append(errs, fmt.Errorf("seal.recipients: %w", err))
		}
	}
	if c.Seal.WorkFactor < 0 || c.Seal.WorkFactor > 30 {
		errs = append(errs, fmt.Errorf("seal.work_factor must be between 0 and 30, got %d", c.Seal.WorkFactor))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
