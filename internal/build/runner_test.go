package build

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/shardpress/internal/config"
)

func newTestState(t *testing.T) *BuildState {
	t.Helper()
	return &BuildState{
		Builder: NewBuilder(config.Default(), t.TempDir()),
		Report:  NewBuildReport(),
	}
}

func TestRunStages_ExecutesInOrder(t *testing.T) {
	bs := newTestState(t)
	var order []StageName
	record := func(name StageName) Stage {
		return func(context.Context, *BuildState) error {
			order = append(order, name)
			return nil
		}
	}

	stages := NewPipeline().
		Add("one", record("one")).
		Add("two", record("two")).
		Add("three", record("three")).
		Build()

	require.NoError(t, RunStages(t.Context(), bs, stages))
	require.Equal(t, []StageName{"one", "two", "three"}, order)
	for _, name := range order {
		require.Equal(t, StageCount{Success: 1}, bs.Report.StageCounts[name])
		require.Contains(t, bs.Report.StageDurations, string(name))
	}
	require.Empty(t, bs.Report.Errors)
}

func TestRunStages_WarningContinues(t *testing.T) {
	bs := newTestState(t)
	ran := false

	stages := NewPipeline().
		Add("warn", func(context.Context, *BuildState) error {
			return NewWarnStageError("warn", errors.New("minor"))
		}).
		Add("after", func(context.Context, *BuildState) error {
			ran = true
			return nil
		}).
		Build()

	require.NoError(t, RunStages(t.Context(), bs, stages))
	require.True(t, ran, "stage after a warning must still run")
	require.Len(t, bs.Report.Warnings, 1)
	require.Empty(t, bs.Report.Errors)
	require.Equal(t, StageErrorWarning, bs.Report.StageErrorKinds["warn"])
}

func TestRunStages_FatalAborts(t *testing.T) {
	bs := newTestState(t)
	boom := errors.New("boom")
	ran := false

	stages := NewPipeline().
		Add("fatal", func(context.Context, *BuildState) error {
			return NewFatalStageError("fatal", boom)
		}).
		Add("after", func(context.Context, *BuildState) error {
			ran = true
			return nil
		}).
		Build()

	err := RunStages(t.Context(), bs, stages)
	require.ErrorIs(t, err, boom)
	require.False(t, ran, "no stage may run after a fatal error")
	require.Len(t, bs.Report.Errors, 1)
	require.Equal(t, StageErrorFatal, bs.Report.StageErrorKinds["fatal"])
}

func TestRunStages_WrapsPlainErrors(t *testing.T) {
	bs := newTestState(t)
	plain := errors.New("unstructured failure")

	stages := NewPipeline().
		Add("oops", func(context.Context, *BuildState) error { return plain }).
		Build()

	err := RunStages(t.Context(), bs, stages)
	require.ErrorIs(t, err, plain)
	var se *StageError
	require.ErrorAs(t, err, &se)
	require.Equal(t, StageErrorFatal, se.Kind)
	require.Equal(t, StageName("oops"), se.Stage)
}

func TestRunStages_CanceledBeforeStage(t *testing.T) {
	bs := newTestState(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	ran := false

	stages := NewPipeline().
		Add("never", func(context.Context, *BuildState) error {
			ran = true
			return nil
		}).
		Build()

	err := RunStages(ctx, bs, stages)
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, ran)
	require.Equal(t, StageErrorCanceled, bs.Report.StageErrorKinds["never"])
	require.Equal(t, StageCount{Canceled: 1}, bs.Report.StageCounts["never"])
}

func TestRunStages_AddIfSkipsStage(t *testing.T) {
	bs := newTestState(t)
	ran := false

	stages := NewPipeline().
		AddIf(false, "skipped", func(context.Context, *BuildState) error {
			ran = true
			return nil
		}).
		Build()

	require.NoError(t, RunStages(t.Context(), bs, stages))
	require.False(t, ran)
	require.NotContains(t, bs.Report.StageCounts, StageName("skipped"))
}

func TestClassifyStageResult(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		result StageResult
		abort  bool
	}{
		{"nil is success", nil, StageResultSuccess, false},
		{"plain error is fatal", errors.New("x"), StageResultFatal, true},
		{"warn continues", NewWarnStageError("s", errors.New("x")), StageResultWarning, false},
		{"fatal aborts", NewFatalStageError("s", errors.New("x")), StageResultFatal, true},
		{"context cancellation wins", context.Canceled, StageResultCanceled, true},
		{"deadline counts as canceled", context.DeadlineExceeded, StageResultCanceled, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := classifyStageResult("s", tc.err)
			require.Equal(t, tc.result, out.Result)
			require.Equal(t, tc.abort, out.Abort)
		})
	}
}
