// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package fileop orchestrates a single file's encryption or decryption:
// password -> Argon2id key -> container header -> stream codec -> atomic
// commit. It is the glue between kdf, aead, container, and atomicfile.
//
// Derived key material is held in a memguard.LockedBuffer for the lifetime
// of one operation and Destroy()'d via defer on both the success and error
// paths, so the key is wiped before the operation returns.
package fileop

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"

	"github.com/sealvault/sealvault/aead"
	"github.com/sealvault/sealvault/atomicfile"
	"github.com/sealvault/sealvault/container"
	"github.com/sealvault/sealvault/errs"
	"github.com/sealvault/sealvault/generator/randomness"
	"github.com/sealvault/sealvault/kdf"
	"github.com/sealvault/sealvault/log"
)

// EncryptOptions configures a new container's cipher and KDF tuning. The
// zero value is not valid; use DefaultEncryptOptions.
type EncryptOptions struct {
	Algorithm aead.Algorithm
	ChunkSize uint32
	KDFParams kdf.Params
}

// DefaultEncryptOptions returns the package's recommended settings:
// XChaCha20-Poly1305, the container's default chunk size, and Argon2id
// tuned to kdf.DefaultParams.
func DefaultEncryptOptions() EncryptOptions {
	return EncryptOptions{
		Algorithm: aead.XChaCha20Poly1305,
		ChunkSize: container.DefaultChunkSize,
		KDFParams: kdf.DefaultParams(),
	}
}

// EncryptFile reads the plaintext at srcPath, derives a key from password
// under fresh random salt and base nonce, and atomically writes the sealed
// .svlt container to dstPath. On any failure dstPath is left untouched.
func EncryptFile(srcPath, dstPath string, password []byte, opts EncryptOptions) (err error) {
	if opts.ChunkSize < container.MinChunkSize || opts.ChunkSize > container.MaxChunkSize {
		return errs.NewUsageError(fmt.Errorf("chunk size %d out of range [%d, %d]", opts.ChunkSize, container.MinChunkSize, container.MaxChunkSize))
	}
	if err := opts.KDFParams.Validate(); err != nil {
		return err
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return errs.NewIoError("open source file", err)
	}
	defer src.Close()

	salt, err := randomness.Bytes(kdf.SaltSize)
	if err != nil {
		return errs.NewIoError("generate salt", err)
	}
	baseNonce, err := randomness.Bytes(aead.BaseNonceSize)
	if err != nil {
		return errs.NewIoError("generate base nonce", err)
	}

	key, err := deriveKey(password, salt, opts.KDFParams)
	if err != nil {
		return err
	}
	defer key.Destroy()

	a, err := aead.New(opts.Algorithm, key.Bytes())
	if err != nil {
		return errs.NewUsageError(err)
	}

	header := container.Header{
		Algorithm: opts.Algorithm,
		KDFParams: opts.KDFParams,
		ChunkSize: opts.ChunkSize,
	}
	copy(header.Salt[:], salt)
	copy(header.BaseNonce[:], baseNonce)

	w, err := atomicfile.NewWriter(dstPath)
	if err != nil {
		return errs.NewIoError("create temporary container file", err)
	}
	defer func() {
		if err != nil {
			if abortErr := w.Abort(); abortErr != nil {
				log.Error(abortErr).Message("unable to clean up temporary container file after failure")
			}
		}
	}()

	if _, err = w.Write(header.Encode()); err != nil {
		return errs.NewIoError("write header", err)
	}
	if err = container.EncodeStream(w, src, a, baseNonce, opts.ChunkSize); err != nil {
		return err
	}
	if err = w.Commit(); err != nil {
		return errs.NewIoError("commit container file", err)
	}

	return nil
}

// DecryptFile reads the .svlt container at srcPath, derives the key from
// password using the header's embedded salt and KDF parameters, verifies
// and decrypts every chunk, and atomically writes the recovered plaintext
// to dstPath. On any failure (bad password, corrupted container) dstPath
// is left untouched.
func DecryptFile(srcPath, dstPath string, password []byte) (err error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return errs.NewIoError("open source file", err)
	}
	defer src.Close()

	header, err := container.DecodeHeader(src)
	if err != nil {
		return err
	}

	key, err := deriveKey(password, header.Salt[:], header.KDFParams)
	if err != nil {
		return err
	}
	defer key.Destroy()

	a, err := aead.New(header.Algorithm, key.Bytes())
	if err != nil {
		return errs.NewUsageError(err)
	}

	w, err := atomicfile.NewWriter(dstPath)
	if err != nil {
		return errs.NewIoError("create temporary plaintext file", err)
	}
	defer func() {
		if err != nil {
			if abortErr := w.Abort(); abortErr != nil {
				log.Error(abortErr).Message("unable to clean up temporary plaintext file after failure")
			}
		}
	}()

	if err = container.DecodeStream(w, src, a, header.BaseNonce[:], header.ChunkSize); err != nil {
		return err
	}
	if err = w.Commit(); err != nil {
		return errs.NewIoError("commit plaintext file", err)
	}

	return nil
}

// deriveKey runs the password through Argon2id under memguard custody, so
// the derived key is wiped from memory as soon as the caller calls
// Destroy() (typically via defer immediately after this call succeeds).
func deriveKey(password, salt []byte, params kdf.Params) (*memguard.LockedBuffer, error) {
	raw, err := kdf.Derive(password, salt, params)
	if err != nil {
		return nil, err
	}
	key := memguard.NewBufferFromBytes(raw)
	return key, nil
}
