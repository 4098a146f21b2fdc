// Package commands defines the docpages command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docpages/internal/classify"
	"git.home.luguber.info/inful/docpages/internal/config"
	"git.home.luguber.info/inful/docpages/internal/console"
	"git.home.luguber.info/inful/docpages/internal/docs"
	"git.home.luguber.info/inful/docpages/internal/logfields"
	"git.home.luguber.info/inful/docpages/internal/markdown"
	"git.home.luguber.info/inful/docpages/internal/metrics"
	"git.home.luguber.info/inful/docpages/internal/pipeline"
	"git.home.luguber.info/inful/docpages/internal/watch"
)

// Description is the --help summary of the root command.
const Description = "Convert a tree of markdown documents into styled HTML pages with a grouped index.\n\n" +
	"Running without flags converts ./docs into ./docs-html; --watch keeps the output up to date. " +
	"Every other flag, and the --config file, is optional and only overrides those defaults."

// CLI is the root command. Flags left empty fall back to the configuration
// file, then to the built-in defaults.
type CLI struct {
	Config      string           `short:"c" help:"Optional YAML configuration file" type:"path"`
	Source      string           `short:"s" help:"Markdown source directory (default ./docs)" placeholder:"DIR"`
	Output      string           `short:"o" help:"Output directory (default ./docs-html)" placeholder:"DIR"`
	Templates   string           `help:"Template directory (default ./doc-templates)" placeholder:"DIR"`
	Styles      string           `help:"Styles directory copied to <output>/assets (default ./styles)" placeholder:"DIR"`
	StyleSource string           `name:"style-source" help:"HTML page whose first <style> block seeds new templates" placeholder:"FILE"`
	Classifier  string           `help:"Classification policy: rules or patterns (default rules)"`
	Title       string           `help:"Title of the index page"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics to this textfile after each build" placeholder:"FILE"`
	Watch       bool             `short:"w" help:"Keep running and reconvert on changes"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`

	// Stdout receives progress lines; nil means os.Stdout.
	Stdout io.Writer `kong:"-"`

	level slog.LevelVar `kong:"-"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	if c.Verbose {
		c.level.Set(slog.LevelDebug)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &c.level}))
	slog.SetDefault(logger)
	return nil
}

// Settings merges the configuration file and flags and validates the result.
func (c *CLI) Settings() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	override(&cfg.Source, c.Source)
	override(&cfg.Output, c.Output)
	override(&cfg.Templates, c.Templates)
	override(&cfg.Styles, c.Styles)
	override(&cfg.StyleSource, c.StyleSource)
	override(&cfg.Classifier, c.Classifier)
	override(&cfg.Title, c.Title)
	override(&cfg.MetricsFile, c.MetricsFile)
	if c.Verbose {
		cfg.LogLevel = string(config.LogLevelDebug)
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func override(dst *string, flag string) {
	if flag != "" {
		*dst = flag
	}
}

// Run performs the initial build and, with --watch, keeps the output in step
// with the source tree until ctx is canceled.
func (c *CLI) Run(ctx context.Context) error {
	cfg, err := c.Settings()
	if err != nil {
		return err
	}
	c.level.Set(config.LogLevel(cfg.LogLevel).SlogLevel())

	stdout := c.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	printer := console.New(stdout)

	policy, err := classify.ParsePolicy(cfg.Classifier)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Source:      cfg.Source,
		Output:      cfg.Output,
		Templates:   cfg.Templates,
		Styles:      cfg.Styles,
		StyleSource: cfg.StyleSource,
		Policy:      policy,
		Title:       cfg.Title,
		Scan:        docs.ScanOptions{Extension: cfg.Extension, ExcludeDirs: cfg.ExcludeDirs},
		Markdown: markdown.Options{
			HardWraps:    cfg.Markdown.HardWraps,
			Unsafe:       cfg.Markdown.Unsafe,
			RewriteLinks: cfg.Markdown.RewriteLinks,
			Extensions:   cfg.Markdown.Extensions,
		},
		Printer: printer,
	}
	if cfg.MetricsFile != "" {
		reg := prom.NewRegistry()
		opts.Recorder = metrics.NewPrometheusRecorder(reg)
		opts.AfterBuild = exportMetrics(cfg.MetricsFile, reg)
	}

	driver := pipeline.New(opts)
	report, err := driver.Build(ctx)
	if err != nil {
		return err
	}
	if !c.Watch {
		return nil
	}

	w := watch.New(driver, watch.Options{
		Root:        cfg.Source,
		Extension:   cfg.Extension,
		ExcludeDirs: cfg.ExcludeDirs,
		Debounce:    cfg.Watch.Debounce,
		Printer:     printer,
	})
	w.Seed(report)
	return w.Run(ctx)
}

func exportMetrics(path string, g prom.Gatherer) func(*pipeline.Report) {
	return func(r *pipeline.Report) {
		if err := metrics.WriteTextfile(path, g); err != nil {
			slog.Warn("Could not export metrics", logfields.Path(path), logfields.RunID(r.RunID), logfields.Error(err))
		}
	}
}
