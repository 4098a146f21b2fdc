package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpages/internal/metrics"
)

func testBuildState() *buildState {
	return &buildState{
		driver:   New(Options{}),
		report:   newReport("test"),
		recorder: metrics.NoopRecorder{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRunStages_StopsOnFatal(t *testing.T) {
	bs := testBuildState()
	var ran []StageName
	step := func(name StageName, err error) stageFn {
		return func(context.Context, *buildState) error {
			ran = append(ran, name)
			return err
		}
	}
	boom := errors.New("boom")

	err := runStages(context.Background(), bs, newStagePlan().
		add(StageInit, step(StageInit, nil)).
		add(StageScanning, step(StageScanning, boom)).
		add(StageConverting, step(StageConverting, nil)).
		build())

	require.ErrorIs(t, err, boom)
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageErrorFatal, se.Kind)
	assert.Equal(t, []StageName{StageInit, StageScanning}, ran)
	assert.Equal(t, StageResultFatal, bs.report.StageResults[StageScanning])
	assert.NotContains(t, bs.report.StageResults, StageConverting)
}

func TestRunStages_TolerantStageContinues(t *testing.T) {
	bs := testBuildState()
	reached := false

	err := runStages(context.Background(), bs, newStagePlan().
		addTolerant(StageCopyingAssets, func(context.Context, *buildState) error { return errors.New("disk full") }).
		add(StageIndexing, func(context.Context, *buildState) error { reached = true; return nil }).
		build())

	require.NoError(t, err)
	assert.True(t, reached)
	assert.Equal(t, StageResultWarning, bs.report.StageResults[StageCopyingAssets])
}

func TestRunStages_CanceledBeforeStage(t *testing.T) {
	bs := testBuildState()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runStages(ctx, bs, newStagePlan().
		add(StageInit, func(context.Context, *buildState) error { t.Fatal("stage should not run"); return nil }).
		build())

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageErrorCanceled, se.Kind)
	assert.Equal(t, StageResultCanceled, bs.report.StageResults[StageInit])
}

func TestReportOutcome(t *testing.T) {
	r := newReport("x")
	r.deriveOutcome()
	assert.Equal(t, metrics.OutcomeSuccess, r.Outcome)

	r.Failures = append(r.Failures, Failure{Path: "a.md", Err: errors.New("x")})
	r.deriveOutcome()
	assert.Equal(t, metrics.OutcomePartial, r.Outcome)

	r.StageResults[StageIndexing] = StageResultFatal
	r.deriveOutcome()
	assert.Equal(t, metrics.OutcomeFailed, r.Outcome)
}
