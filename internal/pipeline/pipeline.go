// Package pipeline drives a conversion run through its states:
// init, scanning, converting, indexing, copying_assets and done, followed by
// watching when the caller keeps the process alive for changes.
//
// Each state except done and watching runs as a named stage with its duration
// recorded on the Report and the metrics Recorder. Errors in init, scanning or
// indexing abort the run. A document that fails to convert is recorded and
// skipped. Asset copying never fails the run.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docpages/internal/assets"
	"git.home.luguber.info/inful/docpages/internal/classify"
	"git.home.luguber.info/inful/docpages/internal/console"
	"git.home.luguber.info/inful/docpages/internal/docs"
	ferrors "git.home.luguber.info/inful/docpages/internal/foundation/errors"
	"git.home.luguber.info/inful/docpages/internal/index"
	"git.home.luguber.info/inful/docpages/internal/logfields"
	"git.home.luguber.info/inful/docpages/internal/markdown"
	"git.home.luguber.info/inful/docpages/internal/metrics"
	"git.home.luguber.info/inful/docpages/internal/render"
	"git.home.luguber.info/inful/docpages/internal/templates"
)

// Options configures a Driver.
type Options struct {
	Source      string
	Output      string
	Templates   string
	Styles      string
	StyleSource string
	Policy      classify.Policy
	Title       string
	Scan        docs.ScanOptions
	Markdown    markdown.Options

	Recorder metrics.Recorder
	Printer  *console.Printer
	// AfterBuild runs after every Build or Rebuild, successful or not.
	AfterBuild func(*Report)
	// Now stamps the index; defaults to time.Now.
	Now func() time.Time
}

// Driver owns the state of the current run and the entries of the last one.
// It is not safe for concurrent use; watch mode calls it from one goroutine.
type Driver struct {
	opts Options

	mu    sync.Mutex
	state StageName

	renderer *render.Renderer
	registry *templates.Registry

	// order is the scan order of the last full build; entries holds the
	// documents of that order that converted successfully.
	order   []string
	entries map[string]docs.NavigationEntry
}

// New returns a Driver. Nothing touches the filesystem until Build.
func New(opts Options) *Driver {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Printer == nil {
		opts.Printer = console.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Title == "" {
		opts.Title = index.DefaultTitle
	}
	return &Driver{opts: opts, state: StageInit, entries: map[string]docs.NavigationEntry{}}
}

// State is the state the driver is currently in.
func (d *Driver) State() StageName {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Driver) setState(s StageName) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// MarkWatching moves a finished driver into the watching state.
func (d *Driver) MarkWatching() { d.setState(StateWatching) }

// buildState is the per-run scratch space shared by stages.
type buildState struct {
	driver   *Driver
	report   *Report
	recorder metrics.Recorder
	logger   *slog.Logger
	paths    []string // documents to convert this run
}

func (bs *buildState) enter(s StageName) {
	bs.driver.setState(s)
	bs.logger.Debug("Entering state", logfields.Stage(string(s)))
}

func (d *Driver) newBuildState() *buildState {
	report := newReport(uuid.NewString())
	return &buildState{
		driver:   d,
		report:   report,
		recorder: d.opts.Recorder,
		logger:   slog.Default().With(logfields.RunID(report.RunID)),
	}
}

// Build runs a full conversion: load templates, scan, convert every
// document, write the index and copy assets. The returned error is non-nil
// only when a fatal stage failed or ctx was canceled; the Report is returned
// in every case.
func (d *Driver) Build(ctx context.Context) (*Report, error) {
	bs := d.newBuildState()
	d.opts.Printer.Start(d.opts.Source, d.opts.Output)

	plan := newStagePlan().
		add(StageInit, stageInit).
		add(StageScanning, stageScan).
		add(StageConverting, stageConvert).
		add(StageIndexing, stageIndex).
		addTolerant(StageCopyingAssets, stageCopyAssets)

	return d.run(ctx, bs, plan.build())
}

// Rebuild reconverts changed and rewrites the index, keeping every other entry
// of the previous run in its scan position. A nil changed, or a driver that
// has not built yet, falls back to Build.
func (d *Driver) Rebuild(ctx context.Context, changed []string) (*Report, error) {
	if changed == nil || d.renderer == nil {
		return d.Build(ctx)
	}
	bs := d.newBuildState()
	bs.paths = changed
	bs.report.Found = len(d.order)

	plan := newStagePlan().
		add(StageConverting, stageConvert).
		add(StageIndexing, stageIndex)

	return d.run(ctx, bs, plan.build())
}

// Forget deletes the pages of removed sources and drops them from the index
// entries. A removed directory forgets every known document beneath it. It
// returns the output paths that were deleted or already absent.
func (d *Driver) Forget(removed []string) []string {
	if d.renderer == nil {
		return nil
	}
	var out []string
	for _, path := range d.expandRemoved(removed) {
		page, err := d.renderer.Remove(path)
		if err != nil {
			slog.Warn("Could not remove stale page", logfields.Path(path), logfields.Error(err))
			continue
		}
		delete(d.entries, path)
		d.order = slices.DeleteFunc(d.order, func(p string) bool { return p == path })
		out = append(out, page)
	}
	return out
}

func (d *Driver) expandRemoved(removed []string) []string {
	var out []string
	for _, r := range removed {
		prefix := r + string(filepath.Separator)
		matched := false
		for _, known := range d.order {
			if known == r || strings.HasPrefix(known, prefix) {
				if !slices.Contains(out, known) {
					out = append(out, known)
				}
				matched = true
			}
		}
		if !matched && filepath.Ext(r) != "" && !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out
}

func (d *Driver) run(ctx context.Context, bs *buildState, defs []stageDef) (*Report, error) {
	err := runStages(ctx, bs, defs)
	bs.report.Entries = d.currentEntries()
	bs.report.finish(bs.recorder)
	if err == nil {
		d.setState(StateDone)
		d.opts.Printer.Summary(bs.report.Found, bs.report.Converted, len(bs.report.Failures), bs.report.Duration())
	}
	bs.logger.Info("Run finished",
		slog.String("outcome", bs.report.Outcome),
		logfields.Count(bs.report.Converted),
		slog.Int("failed", len(bs.report.Failures)),
		logfields.DurationMS(float64(bs.report.Duration().Milliseconds())))
	if d.opts.AfterBuild != nil {
		d.opts.AfterBuild(bs.report)
	}
	return bs.report, err
}

func (d *Driver) currentEntries() []docs.NavigationEntry {
	out := make([]docs.NavigationEntry, 0, len(d.entries))
	for _, path := range d.order {
		if e, ok := d.entries[path]; ok {
			out = append(out, e)
		}
	}
	return out
}

func stageInit(_ context.Context, bs *buildState) error {
	d := bs.driver
	opts := d.opts

	if err := os.MkdirAll(opts.Output, 0o750); err != nil {
		return ferrors.FileSystemError("cannot create output directory").
			Fatal().
			WithContext("path", opts.Output).
			WithCause(err).
			Build()
	}

	reg, err := templates.Load(templates.LoadOptions{Dir: opts.Templates, StyleSource: opts.StyleSource})
	if err != nil {
		return err
	}
	opts.Printer.TemplatesCreated(reg.Synthesized())

	conv, err := markdown.NewConverter(opts.Markdown)
	if err != nil {
		return ferrors.ConfigError("invalid markdown settings").WithCause(err).Build()
	}

	d.registry = reg
	d.renderer = render.New(opts.Source, opts.Output, classify.New(opts.Policy), reg, conv)
	return nil
}

func stageScan(_ context.Context, bs *buildState) error {
	d := bs.driver
	paths, err := docs.Scan(d.opts.Source, d.opts.Scan)
	if err != nil {
		return err
	}
	bs.paths = paths
	bs.report.Found = len(paths)
	bs.recorder.SetDocumentsFound(len(paths))
	d.opts.Printer.Found(len(paths))
	bs.logger.Info("Scanned source tree", logfields.Path(d.opts.Source), logfields.Count(len(paths)))

	d.order = slices.Clone(paths)
	d.entries = make(map[string]docs.NavigationEntry, len(paths))
	return nil
}

func stageConvert(ctx context.Context, bs *buildState) error {
	d := bs.driver
	for _, path := range bs.paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !slices.Contains(d.order, path) {
			d.order = append(d.order, path)
		}

		doc, err := d.renderer.Convert(ctx, path)
		rel, relErr := docs.RelativePath(d.opts.Source, path)
		if relErr != nil {
			rel = path
		}
		if err != nil {
			delete(d.entries, path)
			bs.report.Failures = append(bs.report.Failures, Failure{Path: path, Err: err})
			bs.recorder.IncDocumentResult("unknown", metrics.ResultFailed)
			bs.logger.Error("Failed to convert document", logfields.Path(path), logfields.Error(err))
			d.opts.Printer.Failed(rel, err)
			continue
		}

		d.entries[path] = doc.Entry()
		bs.report.Converted++
		bs.recorder.IncDocumentResult(doc.Tag.String(), metrics.ResultSuccess)
		d.opts.Printer.Converted(rel, doc.Tag.String())
	}
	return nil
}

func stageIndex(_ context.Context, bs *buildState) error {
	d := bs.driver
	page := index.Build(d.currentEntries(), index.Options{
		Template: d.registry.Index(),
		Title:    d.opts.Title,
		Now:      d.opts.Now(),
	})
	path, err := index.Write(d.opts.Output, page)
	if err != nil {
		return err
	}
	bs.report.IndexPath = path
	d.opts.Printer.Index(path, page.TotalDocs, page.CategoryCount)
	return nil
}

func stageCopyAssets(_ context.Context, bs *buildState) error {
	d := bs.driver
	copied, err := assets.Copy(d.opts.Styles, d.opts.Output)
	bs.report.AssetsCopied = copied
	if err != nil {
		return err
	}
	d.opts.Printer.Assets(copied, filepath.Join(d.opts.Output, assets.DirName))
	return nil
}
