// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package atomicfile provides crash-safe, all-or-nothing file writes: a
// target file is either fully replaced by new content or left completely
// untouched, never observed half-written.
//
// The temporary file lives in the target's own directory, writes are
// buffered, the file is fsynced before the rename, and the directory is
// fsynced (best effort) after it, so the replacement is durable across a
// crash. The incremental
// Writer shape lets a caller stream chunk-by-chunk output without
// buffering a whole plaintext or ciphertext in memory first.
package atomicfile

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/sealvault/sealvault/log"
)

// Writer accumulates bytes for a single target file and only makes them
// visible to readers of targetPath on a successful Commit. Until then (or
// on Abort, or if the process dies) the target file is untouched.
type Writer struct {
	targetPath string
	dir        string
	tmp        *os.File
	buf        *bufio.Writer
	done       bool
}

// NewWriter opens a temporary file alongside targetPath ready to receive
// writes. The temporary file lives in the same directory as targetPath so
// the final rename is guaranteed to be on the same filesystem.
func NewWriter(targetPath string) (*Writer, error) {
	dir, file := filepath.Split(targetPath)
	dir = filepath.Clean(dir)

	// The UUID prefix makes each attempt's temporary file distinguishable
	// in logs even if a previous crashed attempt left a like-named file
	// behind in the same directory.
	tmp, err := os.CreateTemp(dir, file+".tmp-"+uuid.NewString()+"-*")
	if err != nil {
		return nil, fmt.Errorf("unable to create temporary file: %w", err)
	}

	return &Writer{
		targetPath: targetPath,
		dir:        dir,
		tmp:        tmp,
		buf:        bufio.NewWriter(tmp),
	}, nil
}

// Write buffers p for the temporary file. It never touches targetPath.
func (w *Writer) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

// Commit flushes all buffered writes, fsyncs the temporary file, atomically
// renames it onto targetPath, and then fsyncs the directory; a failure of
// that last directory sync is only logged.
// After Commit returns successfully, targetPath either reflects the new
// content in full or Commit itself returned an error and targetPath is
// unchanged.
func (w *Writer) Commit() error {
	if w.done {
		return fmt.Errorf("atomicfile: writer already finalized")
	}
	w.done = true

	if err := w.buf.Flush(); err != nil {
		w.cleanup()
		return fmt.Errorf("unable to flush buffered writer: %w", err)
	}
	if err := w.tmp.Sync(); err != nil {
		w.cleanup()
		return fmt.Errorf("unable to sync temporary file: %w", err)
	}
	if err := w.tmp.Close(); err != nil {
		w.cleanup()
		return fmt.Errorf("unable to close temporary file: %w", err)
	}
	if err := os.Rename(w.tmp.Name(), w.targetPath); err != nil {
		w.cleanup()
		return fmt.Errorf("unable to replace target file %q: %w", w.targetPath, err)
	}
	// Best effort: the new content is already in place, so a failed
	// directory sync is logged rather than returned.
	if err := syncDir(w.dir); err != nil {
		log.Error(err).Messagef("unable to sync directory %q after rename", w.dir)
	}

	return nil
}

// Abort discards all buffered writes and removes the temporary file.
// targetPath is left untouched. Calling Abort after a successful Commit is
// a no-op.
func (w *Writer) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	return w.cleanup()
}

func (w *Writer) cleanup() error {
	if err := w.tmp.Close(); err != nil && !errors.Is(err, fs.ErrClosed) {
		log.Error(err).Messagef("unable to close temporary file %q", w.tmp.Name())
	}
	if err := os.Remove(w.tmp.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Error(err).Messagef("unable to remove temporary file %q", w.tmp.Name())
		return err
	}
	return nil
}

// syncDir fsyncs a directory handle so a rename into that directory is
// durable across a crash.
func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("unable to open directory %q: %w", dir, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("unable to stat directory %q: %w", dir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%q is not a directory", dir)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("unable to sync directory %q: %w", dir, err)
	}
	return nil
}
