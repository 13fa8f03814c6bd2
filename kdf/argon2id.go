// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package kdf derives per-file encryption keys from an operator password
// using Argon2id.
//
// The three cost parameters travel with each container in its header, so
// they are untrusted input at decrypt time: Validate enforces a safety
// ceiling before Argon2id ever runs, keeping a hostile header from forcing
// an unbounded memory or CPU spend.
package kdf

import (
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/sealvault/sealvault/errs"
)

// KeySize is the length in bytes of the derived key.
const KeySize = 32

// SaltSize is the length in bytes of the Argon2id salt.
const SaltSize = 16

// Default Argon2id tuning profile, used when encrypting with no explicit
// override (m_cost in KiB, t_cost in iterations, parallelism in lanes).
const (
	DefaultMemoryKiB   = 64 * 1024
	DefaultIterations  = 3
	DefaultParallelism = 1
)

// Safety ceiling: headers requesting parameters above these bounds are
// rejected before Argon2id ever runs, so a crafted container cannot be used
// to exhaust the decrypting host's memory or CPU.
const (
	MaxMemoryKiB   = 1 << 20 // 1 GiB
	MaxIterations  = 10
	MaxParallelism = 16
)

// Params bundles the Argon2id cost parameters. MemoryKiB is the memory cost
// in KiB, Iterations the time cost, Parallelism the lane count.
type Params struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint32
}

// DefaultParams returns the default Argon2id tuning profile used by
// FileEncryptor when no override is supplied.
func DefaultParams() Params {
	return Params{
		MemoryKiB:   DefaultMemoryKiB,
		Iterations:  DefaultIterations,
		Parallelism: DefaultParallelism,
	}
}

// Validate rejects parameters outside the safety ceiling. It must be called
// on every header-derived Params before Derive, so that a hostile container
// cannot force an unbounded Argon2id computation.
func (p Params) Validate() error {
	switch {
	case p.MemoryKiB == 0 || p.MemoryKiB > MaxMemoryKiB:
		return errs.NewKdfError("validate params", fmt.Errorf("m_cost %d KiB exceeds safety ceiling of %d KiB", p.MemoryKiB, MaxMemoryKiB))
	case p.Iterations == 0 || p.Iterations > MaxIterations:
		return errs.NewKdfError("validate params", fmt.Errorf("t_cost %d exceeds safety ceiling of %d", p.Iterations, MaxIterations))
	case p.Parallelism == 0 || p.Parallelism > MaxParallelism:
		return errs.NewKdfError("validate params", fmt.Errorf("parallelism %d exceeds safety ceiling of %d", p.Parallelism, MaxParallelism))
	}
	return nil
}

// Derive computes the 32-byte file key from password and salt using
// Argon2id with the given parameters. Params must be validated (see
// Validate) before calling Derive; Derive itself re-validates as a
// defense-in-depth measure since it is the function a hostile header
// ultimately drives.
func Derive(password, salt []byte, p Params) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, errs.NewKdfError("derive", fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt)))
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	threads := p.Parallelism
	if threads > 255 {
		// argon2.IDKey takes an uint8 thread count; Validate already bounds
		// parallelism far below this, but clamp defensively.
		threads = 255
	}

	key := argon2.IDKey(password, salt, p.Iterations, p.MemoryKiB, uint8(threads), KeySize)

	return key, nil
}
