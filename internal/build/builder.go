// Package build orchestrates the compile pipeline: load sources, index the
// corpus, assemble artifacts, publish the tree. Stages run sequentially and
// report through a BuildReport; artifacts land in a staging directory and are
// promoted with a rename so the output directory is never half-written.
package build

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"git.home.luguber.info/inful/shardpress/internal/config"
	"git.home.luguber.info/inful/shardpress/internal/corpus"
	"git.home.luguber.info/inful/shardpress/internal/emit"
	"git.home.luguber.info/inful/shardpress/internal/history"
	"git.home.luguber.info/inful/shardpress/internal/logfields"
	"git.home.luguber.info/inful/shardpress/internal/metrics"
	"git.home.luguber.info/inful/shardpress/internal/shard"
)

// Builder runs the compile pipeline for one configuration.
type Builder struct {
	config    *config.Config
	outputDir string
	recorder  metrics.Recorder
	store     history.Store
	emitter   *emit.Emitter
	dryRun    bool
	stageDir  string

	mu    sync.Mutex
	phase Phase
}

// NewBuilder creates a Builder publishing into outputDir.
func NewBuilder(cfg *config.Config, outputDir string) *Builder {
	return &Builder{
		config:    cfg,
		outputDir: filepath.Clean(outputDir),
		recorder:  metrics.NoopRecorder{},
		emitter:   emit.New(),
		phase:     PhaseIdle,
	}
}

// SetRecorder installs a metrics recorder. A nil recorder resets to the noop.
func (b *Builder) SetRecorder(r metrics.Recorder) *Builder {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	b.recorder = r
	return b
}

// SetHistory installs a build history store. May be nil to disable recording.
func (b *Builder) SetHistory(s history.Store) *Builder {
	b.store = s
	return b
}

// SetDryRun toggles dry-run mode: the pipeline validates and assembles but
// never touches the output directory.
func (b *Builder) SetDryRun(dry bool) *Builder {
	b.dryRun = dry
	return b
}

// SetEmitter swaps the detail artifact emitter.
func (b *Builder) SetEmitter(e *emit.Emitter) *Builder {
	if e != nil {
		b.emitter = e
	}
	return b
}

// Phase reports the current lifecycle phase.
func (b *Builder) Phase() Phase {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.phase
}

func (b *Builder) setPhase(p Phase) {
	if p == "" {
		return
	}
	b.mu.Lock()
	b.phase = p
	b.mu.Unlock()
}

// Build runs the full pipeline and returns the report. The report is always
// non-nil; the error is non-nil only when the build aborted (fatal stage
// error or cancellation). Rejected documents and other recoverable issues
// leave the error nil and surface through the report's outcome.
func (b *Builder) Build(ctx context.Context) (*BuildReport, error) {
	report := NewBuildReport()
	bs := &BuildState{Builder: b, Report: report}

	slog.Info("Build starting",
		logfields.BuildID(report.BuildID),
		logfields.Source(b.config.Source),
		logfields.Path(b.outputDir))
	b.recordBuildStarted(ctx, report.BuildID)

	if !b.dryRun {
		if err := b.beginStaging(); err != nil {
			report.AddError(err)
			return b.fail(ctx, report, err)
		}
	}

	stages := NewPipeline().
		Add(StageLoad, b.stageLoad).
		Add(StageIndex, b.stageIndex).
		Add(StageAssemble, b.stageAssemble).
		AddIf(!b.dryRun, StagePublish, b.stagePublish).
		Build()

	if err := RunStages(ctx, bs, stages); err != nil {
		return b.fail(ctx, report, err)
	}

	if !b.dryRun {
		if err := b.finalizeStaging(); err != nil {
			report.AddError(err)
			return b.fail(ctx, report, err)
		}
	}

	report.DeriveOutcome()
	report.Finish()

	if !b.dryRun {
		// Operational record lands next to the artifact tree, after promotion.
		if err := report.Persist(b.outputDir); err != nil {
			slog.Warn("Failed to persist build report", logfields.Error(err))
		}
	}

	b.setPhase(PhaseSucceeded)
	b.finishBuildMetrics(report)
	b.recordBuildFinished(ctx, report)

	slog.Info("Build completed",
		logfields.BuildID(report.BuildID),
		logfields.Path(b.outputDir),
		logfields.Count(report.Documents),
		slog.Int("pages", report.Pages),
		logfields.Outcome(string(report.Outcome)))
	return report, nil
}

// fail finishes the report for an aborted build and cleans up staging.
func (b *Builder) fail(ctx context.Context, report *BuildReport, err error) (*BuildReport, error) {
	report.DeriveOutcome()
	report.Finish()
	b.abortStaging()
	b.setPhase(PhaseFailed)
	b.finishBuildMetrics(report)
	b.recordBuildFinished(ctx, report)
	slog.Error("Build failed",
		logfields.BuildID(report.BuildID),
		logfields.Outcome(string(report.Outcome)),
		logfields.Error(err))
	return report, err
}

func (b *Builder) finishBuildMetrics(report *BuildReport) {
	b.recorder.ObserveBuildDuration(report.End.Sub(report.Start))
	b.recorder.IncBuildOutcome(string(report.Outcome))
}

func (b *Builder) recordBuildStarted(ctx context.Context, buildID string) {
	if b.store == nil {
		return
	}
	ev, err := history.NewBuildStarted(buildID, b.config.Source)
	if err != nil {
		slog.Warn("Failed to build history event", logfields.Error(err))
		return
	}
	if err := history.Record(ctx, b.store, ev); err != nil {
		slog.Warn("Failed to record build start", logfields.Error(err))
	}
}

func (b *Builder) recordRejections(ctx context.Context, buildID string, diags []corpus.Diagnostic) {
	if b.store == nil {
		return
	}
	for _, d := range diags {
		ev, err := history.NewDocumentRejected(buildID, d.Source, string(d.Reason), d.Message)
		if err != nil {
			slog.Warn("Failed to build history event", logfields.Error(err))
			continue
		}
		if err := history.Record(ctx, b.store, ev); err != nil {
			slog.Warn("Failed to record rejection", logfields.Error(err))
		}
	}
}

func (b *Builder) recordBuildFinished(ctx context.Context, report *BuildReport) {
	if b.store == nil {
		return
	}
	ev, err := history.NewBuildFinished(report.BuildID, string(report.Outcome),
		report.Documents, report.Rejected, report.Pages, report.End.Sub(report.Start))
	if err != nil {
		slog.Warn("Failed to build history event", logfields.Error(err))
		return
	}
	// The final event is written even when the build context was canceled.
	if err := history.Record(context.WithoutCancel(ctx), b.store, ev); err != nil {
		slog.Warn("Failed to record build finish", logfields.Error(err))
	}
}

func (b *Builder) site() shard.Site {
	return shard.Site{
		Title:       b.config.Site.Title,
		Subtitle:    b.config.Site.Subtitle,
		Description: b.config.Site.Description,
	}
}
