// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads plause configuration: block geometry, salt,
// digest, password length, compression, file paths, and manifest
// sealing.
//
// A configuration file is chosen explicitly, by the --config flag (via
// [LoadFile]) or the PLAUSE_CONFIG environment variable (via [Load]).
// There is no ~/.config discovery. [Resolve] applies that precedence
// and falls back to [Default] when neither is given.
//
// Files are YAML. Files ending in .json or .jsonc are accepted too;
// comments and trailing commas are stripped with tidwall/jsonc before
// decoding. Unknown keys are rejected.
//
// After loading, ${HOME} and ${VAR:-default} patterns in path fields
// are expanded. Command-line flags override file values; that merge
// lives in cmd/plause.
package config
