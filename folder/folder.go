// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package folder implements the recursive directory walk used by the
// encrypt-folder / decrypt-folder commands: every regular file under an
// input root is encrypted or decrypted into a mirrored path under a
// separate output root.
//
// Every relative path the walk yields is vetted before use: a ".."
// component, an absolute path, or a drive prefix aborts the whole
// operation, so nothing is ever written outside the output root.
package folder

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sealvault/sealvault/errs"
	"github.com/sealvault/sealvault/fileop"
	"github.com/sealvault/sealvault/log"
)

// SealedExt is the suffix EncryptTree appends to every encrypted file's
// relative path and DecryptTree strips back off.
const SealedExt = ".svlt"

// Stats summarizes one EncryptTree/DecryptTree run.
type Stats struct {
	FilesProcessed  int
	SymlinksSkipped int
}

// EncryptTree walks inputRoot and encrypts every regular file it finds,
// writing each to outputRoot/rel+".svlt" (parent directories created as
// needed). Symlinks are skipped with a warning, never followed. The first
// per-file error aborts the whole operation; files already written under
// outputRoot before the failure are not rolled back.
func EncryptTree(inputRoot, outputRoot string, password []byte, opts fileop.EncryptOptions) (Stats, error) {
	return walkTree(inputRoot, func(srcPath, rel string) (bool, error) {
		dstPath := filepath.Join(outputRoot, rel+SealedExt)
		if err := os.MkdirAll(filepath.Dir(dstPath), 0o700); err != nil {
			return false, errs.NewIoError(fmt.Sprintf("create output directory for %q", rel), err)
		}
		if err := fileop.EncryptFile(srcPath, dstPath, password, opts); err != nil {
			return false, err
		}
		return true, nil
	})
}

// DecryptTree walks inputRoot and decrypts every file whose relative path
// ends in SealedExt, writing the recovered plaintext to
// outputRoot/rel-without-suffix (parent directories created as needed).
// Files not ending in SealedExt are skipped. Symlinks are skipped with a
// warning, never followed.
func DecryptTree(inputRoot, outputRoot string, password []byte) (Stats, error) {
	return walkTree(inputRoot, func(srcPath, rel string) (bool, error) {
		if !strings.HasSuffix(rel, SealedExt) {
			return false, nil
		}
		dstPath := filepath.Join(outputRoot, strings.TrimSuffix(rel, SealedExt))
		if err := os.MkdirAll(filepath.Dir(dstPath), 0o700); err != nil {
			return false, errs.NewIoError(fmt.Sprintf("create output directory for %q", rel), err)
		}
		if err := fileop.DecryptFile(srcPath, dstPath, password); err != nil {
			return false, err
		}
		return true, nil
	})
}

// walkTree walks inputRoot and invokes process(absolutePath, relativePath)
// for every regular file. process reports whether it actually acted on
// the file (so a decrypt run's skip of a non-.svlt file does not inflate
// Stats.FilesProcessed) and any fatal error, which aborts the walk.
func walkTree(inputRoot string, process func(srcPath, rel string) (bool, error)) (Stats, error) {
	absInputRoot, err := filepath.Abs(inputRoot)
	if err != nil {
		return Stats{}, errs.NewPathError(inputRoot, err)
	}

	var stats Stats

	walkErr := filepath.WalkDir(absInputRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errs.NewIoError(fmt.Sprintf("walk %q", path), err)
		}

		rel, err := safeRelPath(absInputRoot, path)
		if err != nil {
			return err
		}

		if d.Type()&fs.ModeSymlink != 0 {
			log.Field("path", rel).Message("skipping symlink")
			stats.SymlinksSkipped++
			return nil
		}

		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		acted, err := process(path, rel)
		if err != nil {
			log.Field("path", rel).Error(err).Message("aborting folder operation")
			return err
		}
		if acted {
			stats.FilesProcessed++
		}
		return nil
	})
	if walkErr != nil {
		return stats, walkErr
	}

	return stats, nil
}

// safeRelPath computes path's position relative to root and rejects it
// (PathError) if it contains a ".." component, is absolute once resolved,
// or carries a drive prefix. filepath.WalkDir never produces such a path
// for a clean root by itself; this guards against a root containing
// symlinked directories that resolve outside themselves.
func safeRelPath(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", errs.NewPathError(path, err)
	}
	if rel == "." {
		return rel, nil
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == ".." {
			return "", errs.NewPathError(rel, fmt.Errorf("relative path escapes input root %q", root))
		}
	}
	if filepath.IsAbs(rel) {
		return "", errs.NewPathError(rel, fmt.Errorf("unexpected absolute relative path"))
	}
	if vol := filepath.VolumeName(rel); vol != "" {
		return "", errs.NewPathError(rel, fmt.Errorf("unexpected drive-prefixed relative path"))
	}
	return rel, nil
}
