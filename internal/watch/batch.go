package watch

import (
	"errors"
	"io/fs"
	"os"
	"slices"

	"github.com/fsnotify/fsnotify"
)

// Plan is what a coalesced batch of events asks for.
type Plan struct {
	// Full requests a rescan; set by any create, remove or rename.
	Full bool
	// Changed lists written files, sorted. Used when Full is false.
	Changed []string
	// Removed lists sources that no longer exist, sorted.
	Removed []string
}

// batch accumulates events during one quiet period. Later events for a path
// supersede earlier ones.
type batch struct {
	writes     map[string]struct{}
	gone       map[string]struct{}
	structural bool
}

func newBatch() *batch {
	return &batch{writes: map[string]struct{}{}, gone: map[string]struct{}{}}
}

func (b *batch) empty() bool {
	return !b.structural && len(b.writes) == 0
}

func (b *batch) add(ev fsnotify.Event) {
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		b.structural = true
		b.gone[ev.Name] = struct{}{}
		delete(b.writes, ev.Name)
	case ev.Has(fsnotify.Create):
		b.structural = true
		delete(b.gone, ev.Name)
	case ev.Has(fsnotify.Write):
		b.writes[ev.Name] = struct{}{}
	}
}

// markStructural forces a full rebuild, e.g. when a directory appears.
func (b *batch) markStructural() { b.structural = true }

// plan resolves the batch. A path reported gone that exists again (editors
// that save by rename) is not treated as removed.
func (b *batch) plan() Plan {
	var p Plan
	p.Full = b.structural
	for path := range b.gone {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			p.Removed = append(p.Removed, path)
		}
	}
	slices.Sort(p.Removed)
	if !p.Full {
		for path := range b.writes {
			p.Changed = append(p.Changed, path)
		}
		slices.Sort(p.Changed)
	}
	return p
}
