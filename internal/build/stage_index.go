package build

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/shardpress/internal/index"
	"git.home.luguber.info/inful/shardpress/internal/logfields"
)

// stageIndex derives the canonical corpus ordering and pagination layout.
func (b *Builder) stageIndex(_ context.Context, bs *BuildState) error {
	bs.Corpus = index.Build(bs.Loaded.Documents, b.config.Build.PageSize)

	bs.Report.Pages = bs.Corpus.PageCount
	b.recorder.SetCorpusSize(len(bs.Corpus.Documents), bs.Corpus.PageCount)

	slog.Debug("Corpus indexed",
		logfields.Count(len(bs.Corpus.Documents)),
		slog.Int("pages", bs.Corpus.PageCount))
	return nil
}
