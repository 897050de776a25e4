package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/shardpress/internal/emit"
	"git.home.luguber.info/inful/shardpress/internal/logfields"
	"git.home.luguber.info/inful/shardpress/internal/shard"
)

// stagePublish writes the assembled artifact set into the staging directory.
// The promotion to the real output directory happens after the pipeline, in
// finalizeStaging.
func (b *Builder) stagePublish(_ context.Context, bs *BuildState) error {
	if err := b.createArtifactTree(); err != nil {
		return NewFatalStageError(StagePublish, err)
	}

	if err := writeArtifact(filepath.Join(b.stageDir, shard.ManifestFileName), bs.Manifest); err != nil {
		return NewFatalStageError(StagePublish, err)
	}
	for _, a := range bs.Pages {
		if err := writeArtifact(filepath.Join(b.stageDir, shard.PagesDir, a.Name), a.Data); err != nil {
			return NewFatalStageError(StagePublish, err)
		}
	}
	for _, a := range bs.Posts {
		if err := writeArtifact(filepath.Join(b.stageDir, emit.PostsDir, a.Name), a.Data); err != nil {
			return NewFatalStageError(StagePublish, err)
		}
	}

	slog.Debug("Staged artifact set",
		logfields.Path(b.stageDir),
		slog.Int("artifacts", bs.Report.Artifacts))
	return nil
}

func writeArtifact(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", filepath.Base(path), err)
	}
	return nil
}
