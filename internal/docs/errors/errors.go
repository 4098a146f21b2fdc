package errors

// Package errors provides sentinel errors for document discovery and loading.

import "errors"

var (
	// ErrSourceNotFound indicates the configured source root does not exist.
	ErrSourceNotFound = errors.New("source directory not found")

	// ErrSourceNotDir indicates the configured source root is not a directory.
	ErrSourceNotDir = errors.New("source path is not a directory")

	// ErrWalkFailed indicates filesystem traversal of the source tree failed.
	ErrWalkFailed = errors.New("source directory walk failed")

	// ErrFileReadFailed indicates reading a discovered document failed.
	ErrFileReadFailed = errors.New("document read failed")

	// ErrInvalidRelativePath indicates a document lies outside the source root.
	ErrInvalidRelativePath = errors.New("invalid relative path calculation")
)
