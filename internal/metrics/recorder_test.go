package metrics

import (
	"testing"
	"time"
)

type testRecorder struct {
	stageDurations map[string]int
	stageResults   map[string]map[ResultLabel]int
	buildDurations int
	buildOutcomes  map[string]int
	documents      map[string]int
	found          int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		stageDurations: map[string]int{},
		stageResults:   map[string]map[ResultLabel]int{},
		buildOutcomes:  map[string]int{},
		documents:      map[string]int{},
	}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.stageDurations[stage]++
}
func (t *testRecorder) ObserveBuildDuration(_ time.Duration) { t.buildDurations++ }
func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}
func (t *testRecorder) IncBuildOutcome(outcome string) { t.buildOutcomes[outcome]++ }
func (t *testRecorder) IncDocumentResult(docType string, result ResultLabel) {
	t.documents[docType+"/"+string(result)]++
}
func (t *testRecorder) SetDocumentsFound(n int) { t.found = n }

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
	_ Recorder = (*testRecorder)(nil)
)

func TestTestRecorderCounts(t *testing.T) {
	r := newTestRecorder()
	r.ObserveStageDuration("scanning", time.Millisecond)
	r.IncStageResult("scanning", ResultSuccess)
	r.IncDocumentResult("rules", ResultFailed)
	r.SetDocumentsFound(4)

	if r.stageDurations["scanning"] != 1 || r.stageResults["scanning"][ResultSuccess] != 1 {
		t.Fatalf("unexpected stage counts: %+v %+v", r.stageDurations, r.stageResults)
	}
	if r.documents["rules/failed"] != 1 || r.found != 4 {
		t.Fatalf("unexpected document counts: %+v found=%d", r.documents, r.found)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("x", time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncStageResult("x", ResultFatal)
	r.IncBuildOutcome(OutcomeFailed)
	r.IncDocumentResult("x", ResultSuccess)
	r.SetDocumentsFound(0)
}
