// Package config holds the settings of a conversion run.
//
// Every field has a default so a run needs no file at all. An optional YAML
// file overrides the defaults and command-line flags override the file.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docpages/internal/foundation/errors"
)

// Config represents the application configuration.
type Config struct {
	Source      string         `yaml:"source"`                 // markdown tree
	Output      string         `yaml:"output"`                 // generated site
	Templates   string         `yaml:"templates"`              // per-type HTML templates
	Styles      string         `yaml:"styles"`                 // copied to <output>/assets
	StyleSource string         `yaml:"style_source,omitempty"` // HTML page supplying base CSS
	Classifier  string         `yaml:"classifier"`             // rules | patterns
	Title       string         `yaml:"title"`                  // index page title
	Extension   string         `yaml:"extension"`              // source file extension
	ExcludeDirs []string       `yaml:"exclude_dirs"`           // directory names never entered
	Markdown    MarkdownConfig `yaml:"markdown"`
	Watch       WatchConfig    `yaml:"watch"`
	MetricsFile string         `yaml:"metrics_file,omitempty"` // Prometheus textfile output
	LogLevel    string         `yaml:"log_level"`
}

// MarkdownConfig tunes the markdown engine.
type MarkdownConfig struct {
	HardWraps    bool     `yaml:"hard_wraps"`
	Unsafe       bool     `yaml:"unsafe"`
	RewriteLinks bool     `yaml:"rewrite_links"`
	Extensions   []string `yaml:"extensions"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the configuration used when nothing is specified.
func Default() *Config {
	return &Config{
		Source:      "./docs",
		Output:      "./docs-html",
		Templates:   "./doc-templates",
		Styles:      "./styles",
		Classifier:  "rules",
		Title:       "Documentation",
		Extension:   ".md",
		ExcludeDirs: []string{"node_modules"},
		Markdown: MarkdownConfig{
			HardWraps:    true,
			Unsafe:       true,
			RewriteLinks: true,
			Extensions:   []string{"gfm"},
		},
		Watch:    WatchConfig{Debounce: 300 * time.Millisecond},
		LogLevel: string(LogLevelInfo),
	}
}

// Load reads the YAML file at path on top of Default. Unknown keys are
// rejected. The result is normalized but not validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	// #nosec G304 -- path is the operator-supplied config file.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.ConfigError("cannot read configuration file").
			WithContext("path", path).
			WithCause(err).
			Build()
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.ConfigError("invalid configuration file").
			WithContext("path", path).
			WithCause(err).
			Build()
	}

	cfg.Normalize()
	return cfg, nil
}

// Normalize canonicalizes enum-like fields.
func (c *Config) Normalize() {
	c.LogLevel = string(NormalizeLogLevel(c.LogLevel))
	if p, err := normalizeClassifier(c.Classifier); err == nil {
		c.Classifier = p
	}
}
