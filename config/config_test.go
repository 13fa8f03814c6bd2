// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealvault/sealvault/aead"
	"github.com/sealvault/sealvault/config"
)

func TestLoad_PartialOverride_KeepsDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("algorithm: aes-256-gcm\n"), 0o600))

	profile, err := config.Load(path)
	require.NoError(t, err)

	def := config.Default()
	assert.Equal(t, "aes-256-gcm", profile.Algorithm)
	assert.Equal(t, def.ChunkSize, profile.ChunkSize)
	assert.Equal(t, def.MemoryKiB, profile.MemoryKiB)
}

func TestLoad_FullOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	yamlContent := "algorithm: xchacha20poly1305\nchunk_size: 131072\nmemory_kib: 131072\niterations: 2\nparallelism: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o600))

	profile, err := config.Load(path)
	require.NoError(t, err)

	assert.EqualValues(t, 131072, profile.ChunkSize)
	assert.EqualValues(t, 131072, profile.MemoryKiB)
	assert.EqualValues(t, 2, profile.Iterations)
	assert.EqualValues(t, 2, profile.Parallelism)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load("/nonexistent/path/profile.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: valid: yaml: ["), 0o600))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestProfile_ToEncryptOptions(t *testing.T) {
	t.Parallel()

	profile := config.Default()
	alg, chunkSize, params, err := profile.ToEncryptOptions()
	require.NoError(t, err)

	assert.Equal(t, aead.XChaCha20Poly1305, alg)
	assert.NotZero(t, chunkSize)
	assert.NoError(t, params.Validate())
}

func TestProfile_ToEncryptOptions_BadAlgorithm(t *testing.T) {
	t.Parallel()

	profile := config.Default()
	profile.Algorithm = "rot13"

	_, _, _, err := profile.ToEncryptOptions()
	assert.Error(t, err)
}
