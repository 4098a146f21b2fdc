package config

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"git.home.luguber.info/inful/docpages/internal/classify"
	ferrors "git.home.luguber.info/inful/docpages/internal/foundation/errors"
)

var extensionRe = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)

func normalizeClassifier(raw string) (string, error) {
	p, err := classify.ParsePolicy(raw)
	return string(p), err
}

// Validate checks the configuration and returns a fatal validation error
// describing every offending field.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Source, validation.Required),
		validation.Field(&c.Output, validation.Required, validation.By(c.distinctFromSource)),
		validation.Field(&c.Templates, validation.Required),
		validation.Field(&c.Classifier, validation.By(func(value any) error {
			if _, err := normalizeClassifier(value.(string)); err != nil {
				return validation.NewError("validation_classifier_invalid",
					"must be one of: "+strings.Join(classify.PolicyNames(), ", "))
			}
			return nil
		})),
		validation.Field(&c.Extension, validation.Required, validation.Match(extensionRe)),
		validation.Field(&c.ExcludeDirs, validation.Each(validation.Required)),
		validation.Field(&c.LogLevel, validation.In(
			string(LogLevelDebug), string(LogLevelInfo), string(LogLevelWarn), string(LogLevelError))),
		validation.Field(&c.Watch),
	)
	if err != nil {
		return ferrors.ValidationError("invalid configuration").WithCause(err).Build()
	}
	return nil
}

// Validate implements validation.Validatable.
func (w WatchConfig) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.Debounce, validation.Min(10*time.Millisecond)),
	)
}

func (c *Config) distinctFromSource(value any) error {
	out, _ := value.(string)
	if out == "" || c.Source == "" {
		return nil
	}
	if filepath.Clean(out) == filepath.Clean(c.Source) {
		return validation.NewError("validation_output_is_source", "must differ from source")
	}
	return nil
}
