// Package assets copies the styles directory into the output tree.
package assets

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/docpages/internal/foundation/errors"
	"git.home.luguber.info/inful/docpages/internal/logfields"
)

// DirName is the output subdirectory receiving the copied styles.
const DirName = "assets"

// Copy mirrors stylesDir into <outDir>/assets. A missing styles directory is
// not an error; Copy logs it and reports false.
func Copy(stylesDir, outDir string) (bool, error) {
	if stylesDir == "" {
		return false, nil
	}
	info, err := os.Stat(stylesDir)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("No styles directory, skipping asset copy", logfields.Path(stylesDir))
		return false, nil
	}
	if err != nil {
		return false, copyError(stylesDir, err)
	}
	if !info.IsDir() {
		slog.Warn("Styles path is not a directory, skipping asset copy", logfields.Path(stylesDir))
		return false, nil
	}

	dst := filepath.Join(outDir, DirName)
	if err := CopyDir(stylesDir, dst); err != nil {
		return false, copyError(stylesDir, err)
	}
	slog.Debug("Copied assets", logfields.Path(stylesDir), logfields.Output(dst))
	return true, nil
}

func copyError(path string, err error) error {
	return ferrors.FileSystemError("cannot copy assets").
		Warning().
		WithContext("path", path).
		WithCause(err).
		Build()
}

// CopyDir recursively copies a directory tree. Existing files in dst are
// replaced.
func CopyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.IsDir():
			if err := CopyDir(srcPath, dstPath); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}

// copyFile copies a single file from src to dst, keeping its permissions.
func copyFile(src, dst string) error {
	// #nosec G304 -- src comes from walking the configured styles directory.
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	// #nosec G304 -- dst mirrors src under the output directory.
	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		_ = dstFile.Close()
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}
	return os.Chmod(dst, srcInfo.Mode().Perm())
}
