package docs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	derrors "git.home.luguber.info/inful/docpages/internal/docs/errors"
	ferrors "git.home.luguber.info/inful/docpages/internal/foundation/errors"
	"git.home.luguber.info/inful/docpages/internal/logfields"
)

// DefaultExtension is the document source extension.
const DefaultExtension = ".md"

// DefaultExcludeDirs are skipped by name in addition to hidden directories.
var DefaultExcludeDirs = []string{"node_modules"}

// ScanOptions controls which files the scanner reports.
type ScanOptions struct {
	Extension   string   // defaults to DefaultExtension
	ExcludeDirs []string // defaults to DefaultExcludeDirs when nil
}

func (o ScanOptions) withDefaults() ScanOptions {
	if o.Extension == "" {
		o.Extension = DefaultExtension
	}
	if o.ExcludeDirs == nil {
		o.ExcludeDirs = DefaultExcludeDirs
	}
	return o
}

// Scan walks root and returns every regular file ending in the source extension.
// Directories starting with "." and excluded directory names are not entered.
// Results follow filepath.WalkDir's lexical order.
func Scan(root string, opts ScanOptions) ([]string, error) {
	opts = opts.withDefaults()

	info, err := os.Stat(root)
	if err != nil {
		cause := err
		if errors.Is(err, fs.ErrNotExist) {
			cause = fmt.Errorf("%w: %w", derrors.ErrSourceNotFound, err)
		}
		return nil, ferrors.FileSystemError("source directory not found").
			Fatal().
			WithContext("path", root).
			WithCause(cause).
			Build()
	}
	if !info.IsDir() {
		return nil, ferrors.FileSystemError("source path is not a directory").
			Fatal().
			WithContext("path", root).
			WithCause(derrors.ErrSourceNotDir).
			Build()
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && SkipDir(d.Name(), opts.ExcludeDirs) {
				slog.Debug("Skipping directory", logfields.Path(path))
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), opts.Extension) {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if !linkedFile(path) {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}
		files = append(files, path)
		slog.Debug("Discovered document", logfields.Path(path))
		return nil
	})
	if err != nil {
		return nil, ferrors.FileSystemError("source directory walk failed").
			Fatal().
			WithContext("path", root).
			WithCause(fmt.Errorf("%w: %w", derrors.ErrWalkFailed, err)).
			Build()
	}

	slog.Info("Documents discovered", logfields.Path(root), logfields.Count(len(files)))
	return files, nil
}

// linkedFile reports whether the symlink at path resolves to a regular file.
// Dangling links are logged and skipped.
func linkedFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		slog.Warn("Skipping broken link", logfields.Path(path), logfields.Error(err))
		return false
	}
	return info.Mode().IsRegular()
}

// SkipDir reports whether a directory with this name is never scanned.
func SkipDir(name string, exclude []string) bool {
	return strings.HasPrefix(name, ".") || slices.Contains(exclude, name)
}
