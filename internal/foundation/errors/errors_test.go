package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "docpages.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}
		file, exists := err.Context().GetString("file")
		if !exists || file != "docpages.yaml" {
			t.Errorf("expected context file=docpages.yaml, got %v", file)
		}
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		if !IsClassified(err) {
			t.Error("expected error to be classified")
		}
		if !HasCategory(err, CategoryConfig) {
			t.Error("expected error to have config category")
		}
		if !err.IsFatal() {
			t.Error("expected config error to be fatal")
		}
	})

	t.Run("Found through wrapping", func(t *testing.T) {
		inner := FileSystemError("cannot read document").WithContext("path", "a.md").Build()
		wrapped := fmt.Errorf("convert: %w", inner)

		if !IsClassified(wrapped) {
			t.Fatal("expected wrapped error to be classified")
		}
		if GetCategory(wrapped) != CategoryFileSystem {
			t.Errorf("expected filesystem category, got %s", GetCategory(wrapped))
		}
		if GetSeverity(wrapped) != SeverityError {
			t.Errorf("expected error severity, got %s", GetSeverity(wrapped))
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := WrapError(originalErr, CategoryFileSystem, "cannot write page").
		Warning().
		WithContext("path", "out/a.html").
		WithContext("attempt", 1).
		Build()

	if err.Severity() != SeverityWarning {
		t.Errorf("expected severity %s, got %s", SeverityWarning, err.Severity())
	}
	if !errors.Is(err, originalErr) {
		t.Error("expected error to wrap original error")
	}
	if _, ok := err.Context().Get("attempt"); !ok {
		t.Error("expected attempt context key")
	}
	want := "[filesystem:warning] cannot write page: permission denied"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWithContextDoesNotMutateOriginal(t *testing.T) {
	base := TemplateError("template missing").Build()
	derived := base.WithContext("tag", "playbook")

	if _, ok := base.Context().Get("tag"); ok {
		t.Error("original context was mutated")
	}
	if tag, _ := derived.Context().GetString("tag"); tag != "playbook" {
		t.Errorf("expected derived context tag=playbook, got %q", tag)
	}
	if !errors.Is(derived, base) {
		t.Error("expected derived error to match base by category and message")
	}
}

func TestUnclassifiedDefaults(t *testing.T) {
	err := errors.New("boom")
	if GetCategory(err) != CategoryInternal {
		t.Errorf("expected internal category, got %s", GetCategory(err))
	}
	if GetSeverity(err) != SeverityError {
		t.Errorf("expected error severity, got %s", GetSeverity(err))
	}
	if HasSeverity(err, SeverityFatal) {
		t.Error("unclassified error must not report fatal severity")
	}
}
