package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docpages/internal/logfields"
)

// runStages executes stages in order, recording timing and stopping on the
// first fatal or canceled stage.
func runStages(ctx context.Context, bs *buildState, defs []stageDef) error {
	for _, st := range defs {
		if err := ctx.Err(); err != nil {
			se := &StageError{Kind: StageErrorCanceled, Stage: st.Name, Err: err}
			bs.report.recordStage(st.Name, 0, StageResultCanceled, bs.recorder)
			return se
		}

		bs.enter(st.Name)
		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)

		se := classifyStageError(st, err)
		res := StageResultSuccess
		if se != nil {
			res = StageResult(se.Kind)
		}
		bs.report.recordStage(st.Name, dur, res, bs.recorder)
		bs.logger.Debug("Stage complete",
			logfields.Stage(string(st.Name)),
			logfields.DurationMS(float64(dur.Microseconds())/1000),
			slog.String("result", string(res)))

		if se == nil {
			continue
		}
		if se.Kind == StageErrorWarning {
			bs.logger.Warn("Stage finished with warnings", logfields.Stage(string(st.Name)), logfields.Error(se.Err))
			continue
		}
		return se
	}
	return nil
}

func classifyStageError(st stageDef, err error) *StageError {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &StageError{Kind: StageErrorCanceled, Stage: st.Name, Err: err}
	}
	if st.Tolerant {
		return &StageError{Kind: StageErrorWarning, Stage: st.Name, Err: err}
	}
	return &StageError{Kind: StageErrorFatal, Stage: st.Name, Err: err}
}
