package build

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/shardpress/internal/emit"
	"git.home.luguber.info/inful/shardpress/internal/shard"
)

// stageAssemble materializes the complete artifact set in memory: page
// shards, the manifest and all detail artifacts. Nothing touches disk here,
// so a round-trip failure aborts before any output exists. Pagination and
// detail emission are independent and run concurrently; each goroutine
// writes only its own BuildState fields.
func (b *Builder) stageAssemble(_ context.Context, bs *BuildState) error {
	var g errgroup.Group

	g.Go(func() error {
		pages := shard.Paginate(bs.Corpus)
		arts := make([]emit.Artifact, 0, len(pages))
		for _, p := range pages {
			data, err := json.Marshal(p)
			if err != nil {
				return fmt.Errorf("marshal page %d: %w", p.Page, err)
			}
			arts = append(arts, emit.Artifact{Name: shard.PageFileName(p.Page), Data: data})
		}
		manifest, err := json.Marshal(shard.BuildManifest(bs.Corpus, b.site()))
		if err != nil {
			return fmt.Errorf("marshal manifest: %w", err)
		}
		bs.Pages = arts
		bs.Manifest = manifest
		return nil
	})

	g.Go(func() error {
		posts, err := b.emitter.EmitAll(bs.Corpus.Documents)
		if err != nil {
			return err
		}
		bs.Posts = posts
		return nil
	})

	if err := g.Wait(); err != nil {
		return NewFatalStageError(StageAssemble, err)
	}

	bs.Report.Artifacts = len(bs.Pages) + len(bs.Posts) + 1 // + manifest

	slog.Debug("Artifact set assembled", slog.Int("artifacts", bs.Report.Artifacts))
	return nil
}
