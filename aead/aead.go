// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package aead provides the uniform authenticated-encryption surface used
// by the container's chunk codec: two concrete cipher variants dispatched
// by a single-byte algorithm id, each exposing the same Seal/Open
// capability set.
//
// There is deliberately no per-chunk sub-key derivation layered on top of
// the ciphers: the wire format stores base_nonce directly in the header
// and combines it with the chunk counter by XOR, so the nonce discipline
// lives in DeriveNonce rather than in a KDF step.
package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/sealvault/sealvault/errs"
)

// Algorithm identifies a concrete AEAD cipher variant by its on-disk id.
type Algorithm uint8

const (
	// XChaCha20Poly1305 is algorithm_id 0x01.
	XChaCha20Poly1305 Algorithm = 0x01
	// AES256GCM is algorithm_id 0x02.
	AES256GCM Algorithm = 0x02
)

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	switch a {
	case XChaCha20Poly1305:
		return "xchacha20poly1305"
	case AES256GCM:
		return "aes-256-gcm"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint8(a))
	}
}

// ParseAlgorithm maps a CLI-facing algorithm name to its Algorithm id.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "", "xchacha20poly1305":
		return XChaCha20Poly1305, nil
	case "aes-256-gcm":
		return AES256GCM, nil
	default:
		return 0, errs.NewUsageError(fmt.Errorf("unknown algorithm %q (expected xchacha20poly1305 or aes-256-gcm)", name))
	}
}

// KeySize is the key length required by every supported variant.
const KeySize = 32

// TagSize is the AEAD authentication tag length produced by every
// supported variant.
const TagSize = 16

// AEAD is the capability set shared by every supported cipher variant.
type AEAD interface {
	// Seal encrypts plaintext and appends the result to dst, authenticating
	// aad alongside it. It returns the updated slice.
	Seal(dst, nonce, plaintext, aad []byte) []byte
	// Open decrypts ciphertext (which must include the trailing tag) and
	// appends the plaintext to dst, authenticating aad. It returns the
	// updated slice, or an error if authentication fails.
	Open(dst, nonce, ciphertext, aad []byte) ([]byte, error)
	// NonceSize returns the nonce length required by this variant.
	NonceSize() int
}

// New constructs the AEAD implementation for the given algorithm id and
// 32-byte key.
func New(alg Algorithm, key []byte) (AEAD, error) {
	if len(key) != KeySize {
		return nil, errs.NewFormatError("aead.New", fmt.Errorf("key must be %d bytes, got %d", KeySize, len(key)))
	}

	switch alg {
	case XChaCha20Poly1305:
		a, err := chacha20poly1305.NewX(key)
		if err != nil {
			return nil, errs.NewFormatError("aead.New", fmt.Errorf("unable to initialize xchacha20poly1305: %w", err))
		}
		return cipherAEAD{aead: a}, nil
	case AES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, errs.NewFormatError("aead.New", fmt.Errorf("unable to initialize aes block cipher: %w", err))
		}
		gcm, err := cipher.NewGCM(block)
		if err != nil {
			return nil, errs.NewFormatError("aead.New", fmt.Errorf("unable to initialize aes-gcm: %w", err))
		}
		return cipherAEAD{aead: gcm}, nil
	default:
		return nil, errs.NewFormatError("aead.New", fmt.Errorf("unsupported algorithm id 0x%02x", uint8(alg)))
	}
}

// cipherAEAD adapts the stdlib/x-crypto cipher.AEAD interface (which both
// chacha20poly1305 and crypto/cipher.NewGCM implement) to our AEAD surface.
// The two are already interface-compatible; this wrapper exists purely to
// avoid exposing cipher.AEAD (and its Go-stdlib-specific quirks) as part of
// the container's public surface.
type cipherAEAD struct {
	aead cipher.AEAD
}

func (c cipherAEAD) Seal(dst, nonce, plaintext, aad []byte) []byte {
	return c.aead.Seal(dst, nonce, plaintext, aad)
}

func (c cipherAEAD) Open(dst, nonce, ciphertext, aad []byte) ([]byte, error) {
	out, err := c.aead.Open(dst, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("unable to authenticate ciphertext: %w", err)
	}
	return out, nil
}

func (c cipherAEAD) NonceSize() int {
	return c.aead.NonceSize()
}
