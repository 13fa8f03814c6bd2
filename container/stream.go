// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/sealvault/sealvault/aead"
	"github.com/sealvault/sealvault/errs"
)

// lengthPrefixSize is the size of a chunk's Length field.
const lengthPrefixSize = 4

// maxChunkCount bounds the number of chunks a single stream may contain, far
// below the 2^64 point at which the nonce counter would wrap.
const maxChunkCount = 1 << 40

// EncodeStream reads plaintext from src in ChunkSize-sized pieces and
// writes the framed, sealed body to dst: a sequence of
// Length(4B) || Ciphertext || Tag(16B) records, one per chunk, ending with
// whichever chunk had a short (or zero-length, for an empty input) read.
//
// A short read (fewer than chunkSize bytes) marks the final chunk and ends
// the loop; an empty input still produces one zero-length marker chunk so
// every container carries at least one authenticated record.
func EncodeStream(dst io.Writer, src io.Reader, a aead.AEAD, baseNonce []byte, chunkSize uint32) error {
	plain := make([]byte, chunkSize)
	var chunkIndex uint64

	for {
		n, readErr := io.ReadFull(src, plain)
		switch {
		case readErr == nil:
			// Full chunk read; there may be more data.
		case errors.Is(readErr, io.ErrUnexpectedEOF), errors.Is(readErr, io.EOF):
			// Short (possibly zero-length) read: this is the final chunk.
		default:
			return errs.NewIoError("read plaintext", readErr)
		}

		if n == 0 && chunkIndex != 0 {
			// Nothing left to emit; the previous chunk was already short
			// and terminated the stream (a short chunk is never followed
			// by another chunk).
			return nil
		}

		if chunkIndex >= maxChunkCount {
			return errs.NewFormatError("encode stream", fmt.Errorf("refusing to encrypt more than %d chunks", maxChunkCount))
		}

		nonce := aead.DeriveNonce(baseNonce, a.NonceSize(), chunkIndex)
		aadBytes := aead.AAD(chunkIndex)

		sealed := a.Seal(nil, nonce, plain[:n], aadBytes)

		var lengthPrefix [lengthPrefixSize]byte
		binary.BigEndian.PutUint32(lengthPrefix[:], uint32(n))

		if _, err := dst.Write(lengthPrefix[:]); err != nil {
			return errs.NewIoError("write chunk length", err)
		}
		if _, err := dst.Write(sealed); err != nil {
			return errs.NewIoError("write chunk body", err)
		}

		if n < len(plain) {
			// Short read: this was the last chunk (including the
			// zero-length empty-input marker when chunkIndex == 0).
			return nil
		}

		chunkIndex++
	}
}

// DecodeStream reads the framed body from src, verifies and decrypts each
// chunk, and writes the recovered plaintext to dst in order.
//
// Termination is driven purely by EOF at the next Length read, never by
// the size of the chunk just decoded: after every chunk (short or full)
// the loop attempts one more Length read, and only a true EOF there ends
// the stream normally. This means any bytes appended after a legitimate
// final short chunk are not silently dropped — they are parsed as the
// next Length record and, failing to form a valid chunk, surface as a
// FormatError or IntegrityError rather than going unnoticed.
//
// Any authentication failure returns an IntegrityError immediately,
// without writing the offending chunk's plaintext. Any framing violation
// (truncated length/body, oversize Length, a zero Length anywhere but the
// first chunk) returns a FormatError. Callers are expected to discard
// whatever was already written to dst on error (that is the job of the
// atomic writer wrapping dst, not this function).
func DecodeStream(dst io.Writer, src io.Reader, a aead.AEAD, baseNonce []byte, chunkSize uint32) error {
	var chunkIndex uint64

	for {
		var lengthPrefix [lengthPrefixSize]byte
		_, err := io.ReadFull(src, lengthPrefix[:])
		switch {
		case err == nil:
			// Continue decoding this chunk.
		case errors.Is(err, io.EOF):
			if chunkIndex == 0 {
				return errs.NewFormatError("decode stream", errors.New("truncated: header present but body is empty"))
			}
			// Normal end of stream.
			return nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errs.NewFormatError("decode stream", fmt.Errorf("truncated chunk length at index %d", chunkIndex))
		default:
			return errs.NewIoError("read chunk length", err)
		}

		length := binary.BigEndian.Uint32(lengthPrefix[:])
		if length > chunkSize {
			return errs.NewFormatError("decode stream", fmt.Errorf("chunk %d length %d exceeds chunk_size %d", chunkIndex, length, chunkSize))
		}
		if length == 0 && chunkIndex != 0 {
			return errs.NewFormatError("decode stream", fmt.Errorf("chunk %d has zero length; only the first chunk may be empty", chunkIndex))
		}

		sealed := make([]byte, int(length)+aead.TagSize)
		if _, err := io.ReadFull(src, sealed); err != nil {
			return errs.NewFormatError("decode stream", fmt.Errorf("truncated chunk %d body: %w", chunkIndex, err))
		}

		nonce := aead.DeriveNonce(baseNonce, a.NonceSize(), chunkIndex)
		aadBytes := aead.AAD(chunkIndex)

		plain, err := a.Open(nil, nonce, sealed, aadBytes)
		if err != nil {
			return errs.NewIntegrityError(chunkIndex, err)
		}

		if len(plain) > 0 {
			if _, err := dst.Write(plain); err != nil {
				return errs.NewIoError("write plaintext", err)
			}
		}

		chunkIndex++
		if chunkIndex >= maxChunkCount {
			return errs.NewFormatError("decode stream", fmt.Errorf("stream exceeds %d chunk ceiling", maxChunkCount))
		}
	}
}
