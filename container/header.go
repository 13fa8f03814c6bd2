// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package container implements the .svlt v1 on-disk format: the 72-byte
// header and the chunked Length||Ciphertext||Tag body.
//
// The header layout is encoded field by field at explicit byte offsets.
// No struct-based encoding/binary.Write: the record is fixed at 72 bytes
// and every offset is part of the format contract.
package container

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/sealvault/sealvault/aead"
	"github.com/sealvault/sealvault/errs"
	"github.com/sealvault/sealvault/kdf"
)

// Magic is the 4-byte file-type marker every .svlt container starts with.
var Magic = [4]byte{'S', 'V', 'L', 'T'}

// Version is the only container format version this package understands.
const Version = 1

// KdfArgon2id is the only KDF id this package understands.
const KdfArgon2id = 0x01

// HeaderSize is the fixed, bit-exact length of the encoded header.
const HeaderSize = 72

// Chunk size bounds, in plaintext bytes per chunk.
const (
	MinChunkSize     = 1
	MaxChunkSize     = 16 * 1024 * 1024
	DefaultChunkSize = 64 * 1024
)

// Header describes everything needed to decrypt a .svlt body: the cipher
// variant, the KDF parameters and salt used to derive the key, the base
// nonce, and the per-chunk plaintext size.
type Header struct {
	Algorithm aead.Algorithm
	KDFParams kdf.Params
	Salt      [kdf.SaltSize]byte
	BaseNonce [aead.BaseNonceSize]byte
	ChunkSize uint32
}

// Encode returns the bit-exact 72-byte wire representation of h.
//
// Byte layout (all multi-byte integers big-endian):
//
//	 0- 3  magic            "SVLT"
//	 4     version          0x01
//	 5     algorithm_id
//	 6     kdf_id           0x01 (Argon2id)
//	 7-10  m_cost  (KiB)
//	11-14  t_cost  (iterations)
//	15-18  parallelism (lanes)
//	19-34  salt             (16 bytes)
//	35-58  base_nonce       (24 bytes)
//	59-62  chunk_size
//	63-71  reserved         (9 zero bytes)
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)

	copy(buf[0:4], Magic[:])
	buf[4] = Version
	buf[5] = byte(h.Algorithm)
	buf[6] = KdfArgon2id
	binary.BigEndian.PutUint32(buf[7:11], h.KDFParams.MemoryKiB)
	binary.BigEndian.PutUint32(buf[11:15], h.KDFParams.Iterations)
	binary.BigEndian.PutUint32(buf[15:19], h.KDFParams.Parallelism)
	copy(buf[19:35], h.Salt[:])
	copy(buf[35:59], h.BaseNonce[:])
	binary.BigEndian.PutUint32(buf[59:63], h.ChunkSize)
	// buf[63:72] is already zero-filled (reserved).

	return buf
}

// DecodeHeader reads and validates exactly HeaderSize bytes from r,
// rejecting anything that does not conform to the v1 format: bad magic,
// unsupported version/algorithm/KDF id, or out-of-range parameters. The
// 9 reserved bytes are read but never inspected, so forward-compatible
// writers may set them to anything without breaking this reader.
func DecodeHeader(r io.Reader) (Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, errs.NewFormatError("decode header", fmt.Errorf("truncated header: %w", err))
	}

	if string(buf[0:4]) != string(Magic[:]) {
		return Header{}, errs.NewFormatError("decode header", fmt.Errorf("bad magic %q", buf[0:4]))
	}
	if buf[4] != Version {
		return Header{}, errs.NewFormatError("decode header", fmt.Errorf("unsupported version %d", buf[4]))
	}

	alg := aead.Algorithm(buf[5])
	if alg != aead.XChaCha20Poly1305 && alg != aead.AES256GCM {
		return Header{}, errs.NewFormatError("decode header", fmt.Errorf("unsupported algorithm id 0x%02x", buf[5]))
	}

	if buf[6] != KdfArgon2id {
		return Header{}, errs.NewFormatError("decode header", fmt.Errorf("unsupported kdf id 0x%02x", buf[6]))
	}

	params := kdf.Params{
		MemoryKiB:   binary.BigEndian.Uint32(buf[7:11]),
		Iterations:  binary.BigEndian.Uint32(buf[11:15]),
		Parallelism: binary.BigEndian.Uint32(buf[15:19]),
	}
	if err := params.Validate(); err != nil {
		return Header{}, errs.NewFormatError("decode header", err)
	}

	chunkSize := binary.BigEndian.Uint32(buf[59:63])
	if chunkSize < MinChunkSize || chunkSize > MaxChunkSize {
		return Header{}, errs.NewFormatError("decode header", fmt.Errorf("chunk_size %d out of range [%d, %d]", chunkSize, MinChunkSize, MaxChunkSize))
	}

	h := Header{
		Algorithm: alg,
		KDFParams: params,
		ChunkSize: chunkSize,
	}
	copy(h.Salt[:], buf[19:35])
	copy(h.BaseNonce[:], buf[35:59])

	return h, nil
}
