package pipeline

import (
	"time"

	"git.home.luguber.info/inful/docpages/internal/docs"
	"git.home.luguber.info/inful/docpages/internal/metrics"
)

// Failure records one document that could not be converted.
type Failure struct {
	Path string
	Err  error
}

// Report summarizes one run of the pipeline.
type Report struct {
	RunID          string
	Start          time.Time
	End            time.Time
	Found          int
	Converted      int
	Failures       []Failure
	Entries        []docs.NavigationEntry
	IndexPath      string
	AssetsCopied   bool
	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]StageResult
	Outcome        string
}

func newReport(runID string) *Report {
	return &Report{
		RunID:          runID,
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]StageResult),
	}
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

func (r *Report) recordStage(name StageName, d time.Duration, res StageResult, rec metrics.Recorder) {
	r.StageDurations[name] = d
	r.StageResults[name] = res
	rec.ObserveStageDuration(string(name), d)
	rec.IncStageResult(string(name), stageMetricLabel(res))
}

// deriveOutcome sets Outcome from the stage results and failures.
func (r *Report) deriveOutcome() {
	for _, res := range r.StageResults {
		switch res {
		case StageResultCanceled:
			r.Outcome = metrics.OutcomeCanceled
			return
		case StageResultFatal:
			r.Outcome = metrics.OutcomeFailed
			return
		}
	}
	if len(r.Failures) > 0 {
		r.Outcome = metrics.OutcomePartial
		return
	}
	r.Outcome = metrics.OutcomeSuccess
}

func (r *Report) finish(rec metrics.Recorder) {
	r.End = time.Now()
	r.deriveOutcome()
	rec.ObserveBuildDuration(r.Duration())
	rec.IncBuildOutcome(r.Outcome)
}

func stageMetricLabel(res StageResult) metrics.ResultLabel {
	switch res {
	case StageResultFatal:
		return metrics.ResultFatal
	case StageResultCanceled:
		return metrics.ResultCanceled
	case StageResultWarning:
		return metrics.ResultFailed
	default:
		return metrics.ResultSuccess
	}
}
