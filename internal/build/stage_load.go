package build

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/shardpress/internal/corpus"
	"git.home.luguber.info/inful/shardpress/internal/logfields"
)

// stageLoad enumerates the source tree and parses every markdown file,
// splitting the results into accepted documents and per-source diagnostics.
func (b *Builder) stageLoad(ctx context.Context, bs *BuildState) error {
	loader := corpus.NewLoader(b.config.Source, b.config.Build.Parallelism)
	res, err := loader.Load()
	if err != nil {
		return NewFatalStageError(StageLoad, err)
	}
	bs.Loaded = res

	report := bs.Report
	report.SourceFiles = len(res.Documents) + len(res.Diagnostics)
	report.Documents = len(res.Documents)
	report.Rejected = len(res.Diagnostics)
	report.Diagnostics = res.Diagnostics

	b.recorder.AddDocuments(len(res.Documents), len(res.Diagnostics))
	b.recordRejections(ctx, report.BuildID, res.Diagnostics)

	if len(res.Documents) == 0 {
		if b.config.Build.FailOnEmpty {
			return NewFatalStageError(StageLoad, ErrEmptyCorpus)
		}
		slog.Warn("Corpus is empty; publishing empty artifact set",
			logfields.Source(b.config.Source))
	}

	slog.Debug("Sources loaded",
		logfields.Count(report.Documents),
		slog.Int("rejected", report.Rejected))
	return nil
}
