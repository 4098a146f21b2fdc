// Package watch keeps the output tree in step with the source tree after the
// initial build.
//
// Filesystem events are read on a single goroutine and coalesced until the
// tree has been quiet for the debounce period. A batch made only of writes
// reconverts the written files whose content actually changed; any create,
// remove or rename triggers a full rebuild, and removed documents lose their
// generated page.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docpages/internal/console"
	"git.home.luguber.info/inful/docpages/internal/docs"
	ferrors "git.home.luguber.info/inful/docpages/internal/foundation/errors"
	"git.home.luguber.info/inful/docpages/internal/logfields"
	"git.home.luguber.info/inful/docpages/internal/pipeline"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// Builder is the part of the pipeline driver watch mode needs.
type Builder interface {
	Build(ctx context.Context) (*pipeline.Report, error)
	Rebuild(ctx context.Context, changed []string) (*pipeline.Report, error)
	Forget(removed []string) []string
	MarkWatching()
}

// Options configures a Watcher.
type Options struct {
	Root        string
	Extension   string   // defaults to docs.DefaultExtension
	ExcludeDirs []string // defaults to docs.DefaultExcludeDirs
	Debounce    time.Duration
	Printer     *console.Printer
}

// Watcher reacts to changes under Root by driving a Builder.
type Watcher struct {
	opts    Options
	builder Builder
	seen    fingerprints
}

// New returns a Watcher for b.
func New(b Builder, opts Options) *Watcher {
	if opts.Extension == "" {
		opts.Extension = docs.DefaultExtension
	}
	if opts.ExcludeDirs == nil {
		opts.ExcludeDirs = docs.DefaultExcludeDirs
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Printer == nil {
		opts.Printer = console.Discard()
	}
	return &Watcher{opts: opts, builder: b, seen: fingerprints{}}
}

// Seed records the content of the documents in report so unchanged saves are
// skipped.
func (w *Watcher) Seed(report *pipeline.Report) {
	if report == nil {
		return
	}
	paths := make([]string, 0, len(report.Entries))
	for _, e := range report.Entries {
		paths = append(paths, e.SourcePath)
	}
	w.seen.seed(paths)
}

// Run watches until ctx is canceled. It returns nil on cancellation and an
// error only when the watcher cannot be set up or the event stream breaks.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.WatchError("cannot start file watcher").WithCause(err).Build()
	}
	defer func() {
		_ = fw.Close()
	}()

	if err := w.addDirsRecursive(fw, w.opts.Root); err != nil {
		return ferrors.WatchError("cannot watch source directory").
			WithContext("path", w.opts.Root).
			WithCause(err).
			Build()
	}

	w.builder.MarkWatching()
	w.opts.Printer.Watching(w.opts.Root)
	slog.Info("Watching for changes", logfields.Path(w.opts.Root), slog.Duration("debounce", w.opts.Debounce))

	pending := newBatch()
	timer := time.NewTimer(w.opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info("Stopped watching", logfields.Path(w.opts.Root))
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return ferrors.WatchError("file watcher closed unexpectedly").Build()
			}
			if w.handleEvent(fw, pending, ev) {
				timer.Reset(w.opts.Debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return ferrors.WatchError("file watcher closed unexpectedly").Build()
			}
			slog.Warn("Watcher error", logfields.Error(err))

		case <-timer.C:
			if pending.empty() {
				continue
			}
			plan := pending.plan()
			pending = newBatch()
			if err := w.apply(ctx, plan); err != nil {
				return err
			}
		}
	}
}

// handleEvent folds ev into b and reports whether it was relevant.
func (w *Watcher) handleEvent(fw *fsnotify.Watcher, b *batch, ev fsnotify.Event) bool {
	if shouldIgnoreEvent(ev.Name) {
		return false
	}

	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if docs.SkipDir(fi.Name(), w.opts.ExcludeDirs) {
				return false
			}
			if err := w.addDirsRecursive(fw, ev.Name); err != nil {
				slog.Warn("Watch add failed", logfields.Path(ev.Name), logfields.Error(err))
			}
			slog.Debug("Directory created", logfields.Path(ev.Name))
			b.markStructural()
			return true
		}
	}

	if !w.relevant(ev) {
		return false
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), logfields.Event(ev.Op.String()))
	w.opts.Printer.Change(describe(ev), w.rel(ev.Name))
	b.add(ev)
	return true
}

// relevant keeps source documents. Removals of extension-less names are kept
// as well since they may be directories holding documents.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if strings.HasSuffix(ev.Name, w.opts.Extension) {
		return true
	}
	gone := ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
	return gone && filepath.Ext(ev.Name) == ""
}

// apply executes a plan. Build failures are logged and watching continues;
// only cancellation ends the loop.
func (w *Watcher) apply(ctx context.Context, plan Plan) error {
	var (
		report *pipeline.Report
		err    error
	)

	if plan.Full {
		for _, page := range w.builder.Forget(plan.Removed) {
			w.opts.Printer.Removed(page)
		}
		for _, path := range plan.Removed {
			delete(w.seen, path)
		}
		report, err = w.builder.Build(ctx)
		if err == nil {
			w.seen = fingerprints{}
			w.Seed(report)
		}
	} else {
		changed := slices.DeleteFunc(slices.Clone(plan.Changed), func(p string) bool {
			return !w.seen.changed(p)
		})
		if len(changed) == 0 {
			slog.Debug("Content unchanged, skipping rebuild", logfields.Count(len(plan.Changed)))
			return nil
		}
		report, err = w.builder.Rebuild(ctx, changed)
	}

	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		slog.Error("Rebuild failed", logfields.Error(err))
		return nil
	}
	w.builder.MarkWatching()
	w.opts.Printer.Updated(plan.Full)
	slog.Info("Rebuild complete",
		slog.Bool("full", plan.Full),
		logfields.Count(report.Converted),
		slog.Int("failed", len(report.Failures)))
	return nil
}

func (w *Watcher) rel(path string) string {
	if rel, err := filepath.Rel(w.opts.Root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func describe(ev fsnotify.Event) string {
	switch {
	case ev.Has(fsnotify.Create):
		return "added"
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return "removed"
	default:
		return "changed"
	}
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && docs.SkipDir(d.Name(), w.opts.ExcludeDirs) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files, including editor lock files such as .#name
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap/backup files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, ".bak") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}

	return base == "Thumbs.db"
}
