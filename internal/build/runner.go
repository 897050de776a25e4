package build

import (
	"context"
	"errors"
	"time"
)

type stageOutcome struct {
	Error  *StageError
	Result StageResult
	Abort  bool
}

// classifyStageResult normalizes a stage's error into a result and an abort
// decision. Errors that are not StageErrors are treated as fatal; context
// cancellation wins over any other classification.
func classifyStageResult(name StageName, err error) stageOutcome {
	if err == nil {
		return stageOutcome{Result: StageResultSuccess}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return stageOutcome{Error: NewCanceledStageError(name, err), Result: StageResultCanceled, Abort: true}
	}

	var se *StageError
	if !errors.As(err, &se) {
		se = NewFatalStageError(name, err)
	}
	switch se.Kind {
	case StageErrorWarning:
		return stageOutcome{Error: se, Result: StageResultWarning}
	case StageErrorCanceled:
		return stageOutcome{Error: se, Result: StageResultCanceled, Abort: true}
	default:
		return stageOutcome{Error: se, Result: StageResultFatal, Abort: true}
	}
}

// RunStages executes stages in order, recording timing and stopping on the
// first fatal or canceled outcome. Warnings are recorded and execution
// continues.
func RunStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := NewCanceledStageError(st.Name, ctx.Err())
			bs.Report.StageErrorKinds[st.Name] = se.Kind
			bs.Report.AddError(se)
			bs.Report.RecordStageResult(st.Name, StageResultCanceled, bs.Builder.recorder)
			return se
		default:
		}

		bs.Builder.setPhase(phaseForStage(st.Name))

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)

		bs.Report.StageDurations[string(st.Name)] = dur
		bs.Builder.recorder.ObserveStageDuration(string(st.Name), dur)

		out := classifyStageResult(st.Name, err)
		if out.Error != nil {
			bs.Report.StageErrorKinds[st.Name] = out.Error.Kind
			if out.Error.Kind == StageErrorWarning {
				bs.Report.AddWarning(out.Error)
			} else {
				bs.Report.AddError(out.Error)
			}
		}
		bs.Report.RecordStageResult(st.Name, out.Result, bs.Builder.recorder)

		if out.Abort {
			return out.Error
		}
	}
	return nil
}
