// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package errs_test

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealvault/sealvault/errs"
)

func TestKinds_UnwrapToCause(t *testing.T) {
	t.Parallel()

	cause := io.ErrUnexpectedEOF

	for _, err := range []error{
		errs.NewFormatError("decode header", cause),
		errs.NewIntegrityError(3, cause),
		errs.NewKdfError("derive", cause),
		errs.NewIoError("write chunk", cause),
		errs.NewPathError("../evil", cause),
		errs.NewUsageError(cause),
	} {
		assert.ErrorIs(t, err, cause, "%T must unwrap to its cause", err)
	}
}

func TestKinds_AreDistinguishableWithErrorsAs(t *testing.T) {
	t.Parallel()

	var integrity *errs.IntegrityError
	err := errs.NewIntegrityError(7, errors.New("tag mismatch"))
	require.ErrorAs(t, err, &integrity)
	assert.Equal(t, uint64(7), integrity.ChunkIndex)

	var format *errs.FormatError
	assert.False(t, errors.As(err, &format), "an IntegrityError must not match FormatError")
}

func TestKinds_MessagesNameTheKind(t *testing.T) {
	t.Parallel()

	assert.Contains(t, errs.NewFormatError("decode header", errors.New("bad magic")).Error(), "format error")
	assert.Contains(t, errs.NewIntegrityError(0, errors.New("x")).Error(), "chunk 0")
	assert.Contains(t, errs.NewKdfError("validate params", errors.New("x")).Error(), "kdf error")
	assert.Contains(t, errs.NewIoError("rename", errors.New("x")).Error(), "io error")
	assert.Contains(t, errs.NewPathError("../evil", errors.New("x")).Error(), "path error")
	assert.Contains(t, errs.NewUsageError(errors.New("x")).Error(), "usage error")
}
