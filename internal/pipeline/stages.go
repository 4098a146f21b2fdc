package pipeline

import (
	"context"
	"fmt"
)

// StageName is a strongly-typed identifier for a pipeline state. Every state
// except done and watching is executed as a stage.
type StageName string

// Canonical states in the order a run moves through them.
const (
	StageInit          StageName = "init"
	StageScanning      StageName = "scanning"
	StageConverting    StageName = "converting"
	StageIndexing      StageName = "indexing"
	StageCopyingAssets StageName = "copying_assets"
	StateDone          StageName = "done"
	StateWatching      StageName = "watching"
)

// StageErrorKind classifies the outcome of a failed stage.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Run must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a stage failure carrying its kind and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// StageResult captures the high-level outcome of a stage.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultWarning  StageResult = "warning"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
)

// stageFn is a discrete unit of work in a run.
type stageFn func(ctx context.Context, bs *buildState) error

// stageDef pairs a stage name with its function and failure policy.
type stageDef struct {
	Name StageName
	Fn   stageFn
	// Tolerant stages downgrade errors to warnings instead of aborting.
	Tolerant bool
}

// stagePlan is a fluent builder for ordered stage definitions.
type stagePlan struct{ defs []stageDef }

func newStagePlan() *stagePlan { return &stagePlan{defs: make([]stageDef, 0, 5)} }

// add appends a stage whose errors abort the run.
func (p *stagePlan) add(name StageName, fn stageFn) *stagePlan {
	p.defs = append(p.defs, stageDef{Name: name, Fn: fn})
	return p
}

// addTolerant appends a stage whose errors are recorded as warnings.
func (p *stagePlan) addTolerant(name StageName, fn stageFn) *stagePlan {
	p.defs = append(p.defs, stageDef{Name: name, Fn: fn, Tolerant: true})
	return p
}

func (p *stagePlan) build() []stageDef {
	out := make([]stageDef, len(p.defs))
	copy(out, p.defs)
	return out
}
