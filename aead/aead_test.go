// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package aead_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealvault/sealvault/aead"
)

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func TestSealOpenRoundTrip(t *testing.T) {
	t.Parallel()

	for _, alg := range []aead.Algorithm{aead.XChaCha20Poly1305, aead.AES256GCM} {
		alg := alg
		t.Run(alg.String(), func(t *testing.T) {
			t.Parallel()

			key := randomBytes(t, aead.KeySize)
			a, err := aead.New(alg, key)
			require.NoError(t, err)

			nonce := aead.DeriveNonce(randomBytes(t, aead.BaseNonceSize), a.NonceSize(), 42)
			plaintext := []byte("the quick brown fox jumps over the lazy dog")
			aadBytes := aead.AAD(42)

			sealed := a.Seal(nil, nonce, plaintext, aadBytes)
			opened, err := a.Open(nil, nonce, sealed, aadBytes)
			require.NoError(t, err)
			assert.Equal(t, plaintext, opened)
		})
	}
}

func TestOpen_WrongAadFails(t *testing.T) {
	t.Parallel()

	key := randomBytes(t, aead.KeySize)
	a, err := aead.New(aead.XChaCha20Poly1305, key)
	require.NoError(t, err)

	nonce := aead.DeriveNonce(randomBytes(t, aead.BaseNonceSize), a.NonceSize(), 0)
	sealed := a.Seal(nil, nonce, []byte("hello"), aead.AAD(0))

	_, err = a.Open(nil, nonce, sealed, aead.AAD(1))
	assert.Error(t, err)
}

func TestDeriveNonce_XORsLowBytesOnly(t *testing.T) {
	t.Parallel()

	base := randomBytes(t, aead.BaseNonceSize)

	n0 := aead.DeriveNonce(base, 24, 0)
	n1 := aead.DeriveNonce(base, 24, 1)

	assert.True(t, bytes.Equal(n0[:16], base[:16]), "first 16 bytes unchanged for xchacha nonce")
	assert.True(t, bytes.Equal(n0[:16], n1[:16]), "first 16 bytes identical across chunk indices")
	assert.False(t, bytes.Equal(n0[16:], n1[16:]), "low 8 bytes differ by chunk index")

	a0 := aead.DeriveNonce(base, 12, 0)
	a1 := aead.DeriveNonce(base, 12, 1)
	assert.True(t, bytes.Equal(a0[:4], base[:4]), "first 4 bytes unchanged for aes-gcm nonce")
	assert.False(t, bytes.Equal(a0[4:], a1[4:]), "low 8 bytes differ by chunk index")
}

func TestDeriveNonce_UniquePerIndex(t *testing.T) {
	t.Parallel()

	base := randomBytes(t, aead.BaseNonceSize)
	seen := make(map[string]struct{})
	for i := uint64(0); i < 1000; i++ {
		n := aead.DeriveNonce(base, 24, i)
		seen[string(n)] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}

func TestParseAlgorithm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    aead.Algorithm
		wantErr bool
	}{
		{"", aead.XChaCha20Poly1305, false},
		{"xchacha20poly1305", aead.XChaCha20Poly1305, false},
		{"aes-256-gcm", aead.AES256GCM, false},
		{"rot13", 0, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := aead.ParseAlgorithm(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
