// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package kdf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealvault/sealvault/kdf"
)

func TestDerive_Deterministic(t *testing.T) {
	t.Parallel()

	salt := make([]byte, kdf.SaltSize)
	for i := range salt {
		salt[i] = byte(i)
	}
	params := kdf.DefaultParams()

	k1, err := kdf.Derive([]byte("correct horse battery staple"), salt, params)
	require.NoError(t, err)
	k2, err := kdf.Derive([]byte("correct horse battery staple"), salt, params)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.Len(t, k1, kdf.KeySize)
}

func TestDerive_DifferentPasswordDifferentKey(t *testing.T) {
	t.Parallel()

	salt := make([]byte, kdf.SaltSize)
	params := kdf.DefaultParams()

	k1, err := kdf.Derive([]byte("pw1"), salt, params)
	require.NoError(t, err)
	k2, err := kdf.Derive([]byte("pw2"), salt, params)
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2)
}

func TestDerive_InvalidSaltSize(t *testing.T) {
	t.Parallel()

	_, err := kdf.Derive([]byte("pw"), []byte("tooshort"), kdf.DefaultParams())
	require.Error(t, err)
}

func TestValidate_SafetyCeiling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params kdf.Params
		fails  bool
	}{
		{"default ok", kdf.DefaultParams(), false},
		{"zero memory", kdf.Params{MemoryKiB: 0, Iterations: 1, Parallelism: 1}, true},
		{"memory over ceiling", kdf.Params{MemoryKiB: kdf.MaxMemoryKiB + 1, Iterations: 1, Parallelism: 1}, true},
		{"iterations over ceiling", kdf.Params{MemoryKiB: 1024, Iterations: kdf.MaxIterations + 1, Parallelism: 1}, true},
		{"parallelism over ceiling", kdf.Params{MemoryKiB: 1024, Iterations: 1, Parallelism: kdf.MaxParallelism + 1}, true},
		{"at ceiling ok", kdf.Params{MemoryKiB: kdf.MaxMemoryKiB, Iterations: kdf.MaxIterations, Parallelism: kdf.MaxParallelism}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.params.Validate()
			if tt.fails {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
