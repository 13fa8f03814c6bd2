// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package folder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealvault/sealvault/errs"
)

func TestSafeRelPath_AcceptsOrdinaryRelativePath(t *testing.T) {
	t.Parallel()

	rel, err := safeRelPath("/input", "/input/nested/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "nested/file.txt", filepath.ToSlash(rel))
}

func TestSafeRelPath_RejectsEscapingParentComponent(t *testing.T) {
	t.Parallel()

	_, err := safeRelPath("/input/root", "/input/outside.txt")

	var pathErr *errs.PathError
	require.ErrorAs(t, err, &pathErr)
}

func TestSafeRelPath_RejectsEscapeViaNestedParentComponent(t *testing.T) {
	t.Parallel()

	_, err := safeRelPath("/input/root", "/input/root/nested/../../escape.txt")

	var pathErr *errs.PathError
	require.ErrorAs(t, err, &pathErr)
}

func TestSafeRelPath_AcceptsRootItself(t *testing.T) {
	t.Parallel()

	rel, err := safeRelPath("/input/root", "/input/root")
	require.NoError(t, err)
	assert.Equal(t, ".", rel)
}
