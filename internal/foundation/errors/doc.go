// Package errors provides the classified error type used across docpages.
//
// A ClassifiedError carries a category (config, filesystem, template, render, ...),
// a severity and a small context map. Errors are built through a fluent builder:
//
//	err := errors.FileSystemError("cannot read document").
//		WithContext("path", path).
//		WithCause(readErr).
//		Build()
//
// CLIErrorAdapter turns any error into the process exit code and a one-line message.
package errors
