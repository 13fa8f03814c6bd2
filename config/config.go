// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package config loads an optional YAML tuning profile for the CLI:
// default cipher, chunk size, and Argon2id parameters. The encrypt
// commands' optional trailing algorithm argument overrides the cipher per
// invocation; chunk size and Argon2id parameters have no command-line
// override.
//
// The file is parsed into a generic map first and then weakly decoded
// onto a Default()-seeded Profile, so a partial file only overrides the
// fields it actually mentions.
package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"

	"github.com/sealvault/sealvault/aead"
	"github.com/sealvault/sealvault/container"
	"github.com/sealvault/sealvault/errs"
	"github.com/sealvault/sealvault/kdf"
)

// Profile holds the user-tunable defaults a --config file may set. Any
// field left unset in the file keeps the built-in default; an explicit
// algorithm argument on encrypt/encrypt-folder, in turn, overrides the
// profile's Algorithm.
type Profile struct {
	Algorithm   string `mapstructure:"algorithm" yaml:"algorithm"`
	ChunkSize   uint32 `mapstructure:"chunk_size" yaml:"chunk_size"`
	MemoryKiB   uint32 `mapstructure:"memory_kib" yaml:"memory_kib"`
	Iterations  uint32 `mapstructure:"iterations" yaml:"iterations"`
	Parallelism uint32 `mapstructure:"parallelism" yaml:"parallelism"`
}

// Default returns the built-in profile used when no --config file is
// supplied and no flag overrides a given field.
func Default() Profile {
	d := kdf.DefaultParams()
	return Profile{
		Algorithm:   aead.XChaCha20Poly1305.String(),
		ChunkSize:   container.DefaultChunkSize,
		MemoryKiB:   d.MemoryKiB,
		Iterations:  d.Iterations,
		Parallelism: d.Parallelism,
	}
}

// Load reads and parses a YAML profile from path, merging it onto
// Default() — a key absent from the file keeps its built-in value.
func Load(path string) (Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, errs.NewUsageError(fmt.Errorf("unable to read config file %q: %w", path, err))
	}

	var generic map[string]any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return Profile{}, errs.NewUsageError(fmt.Errorf("unable to parse config file %q: %w", path, err))
	}

	profile := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &profile,
	})
	if err != nil {
		return Profile{}, fmt.Errorf("unable to build config decoder: %w", err)
	}
	if err := decoder.Decode(generic); err != nil {
		return Profile{}, errs.NewUsageError(fmt.Errorf("unable to apply config file %q: %w", path, err))
	}

	return profile, nil
}

// ToEncryptOptions resolves the profile into fileop-ready encrypt
// options, validating the algorithm name and KDF parameters.
func (p Profile) ToEncryptOptions() (alg aead.Algorithm, chunkSize uint32, params kdf.Params, err error) {
	alg, err = aead.ParseAlgorithm(p.Algorithm)
	if err != nil {
		return 0, 0, kdf.Params{}, err
	}

	params = kdf.Params{
		MemoryKiB:   p.MemoryKiB,
		Iterations:  p.Iterations,
		Parallelism: p.Parallelism,
	}
	if err := params.Validate(); err != nil {
		return 0, 0, kdf.Params{}, err
	}

	if p.ChunkSize < container.MinChunkSize || p.ChunkSize > container.MaxChunkSize {
		return 0, 0, kdf.Params{}, errs.NewUsageError(fmt.Errorf("chunk_size %d out of range [%d, %d]", p.ChunkSize, container.MinChunkSize, container.MaxChunkSize))
	}

	return alg, p.ChunkSize, params, nil
}
