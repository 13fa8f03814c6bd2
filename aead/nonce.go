// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package aead

import "encoding/binary"

// BaseNonceSize is the size in bytes of the header's base_nonce field. It
// is always 24 bytes regardless of the selected algorithm; AES-256-GCM
// variants only consume the low 12.
const BaseNonceSize = 24

// DeriveNonce computes the per-chunk nonce for chunkIndex by XOR-ing the
// big-endian encoding of chunkIndex into the low 8 bytes of baseNonce,
// truncated to the variant's nonce size.
//
// For XChaCha20-Poly1305 (24-byte nonce) the first 16 bytes of baseNonce
// are copied unchanged and the XOR lands in bytes [16:24]. For AES-256-GCM
// (12-byte nonce) the first 4 bytes are copied unchanged and the XOR lands
// in bytes [4:12]. Both cases are the same operation: XOR the 8-byte
// counter into the last 8 bytes of the (possibly truncated) base nonce.
//
// The XOR-into-low-bytes construction (rather than concatenating a random
// prefix with the counter) is load-bearing: it is what lets one 24-byte
// base_nonce field serve both nonce sizes by simple truncation. Callers
// must never treat the counter bytes as independent of baseNonce.
func DeriveNonce(baseNonce []byte, nonceSize int, chunkIndex uint64) []byte {
	nonce := make([]byte, nonceSize)
	copy(nonce, baseNonce[:nonceSize])

	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], chunkIndex)

	for i := 0; i < 8; i++ {
		nonce[nonceSize-8+i] ^= idx[i]
	}

	return nonce
}

// AAD returns the associated data bound to the chunk at chunkIndex: the
// 8-byte big-endian encoding of the index itself. Binding the index this
// way makes chunk reordering, duplication, or resumption-at-a-different-
// index fail authentication.
func AAD(chunkIndex uint64) []byte {
	var aad [8]byte
	binary.BigEndian.PutUint64(aad[:], chunkIndex)
	return aad[:]
}
