package build

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/shardpress/internal/emit"
	"git.home.luguber.info/inful/shardpress/internal/logfields"
	"git.home.luguber.info/inful/shardpress/internal/shard"
)

// beginStaging prepares a sibling staging directory next to the output
// directory. Artifacts are written there and promoted in one rename, so
// consumers never observe a half-written tree. Any stale staging directory
// from an interrupted run is cleared first: the promoted tree must contain
// exactly the artifacts of this build.
func (b *Builder) beginStaging() error {
	stage := b.outputDir + "_stage"
	if err := os.RemoveAll(stage); err != nil {
		return fmt.Errorf("clear stale staging: %w", err)
	}
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	b.stageDir = stage
	slog.Debug("Created staging directory", logfields.Path(stage))
	return nil
}

// createArtifactTree lays out the fixed directory structure inside the
// staging directory. The tree exists even for an empty corpus so consumers
// can rely on its shape.
func (b *Builder) createArtifactTree() error {
	dirs := []string{shard.PagesDir, emit.PostsDir}
	for _, dir := range dirs {
		path := filepath.Join(b.stageDir, dir)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	slog.Debug("Created artifact tree", logfields.Path(b.stageDir))
	return nil
}

// finalizeStaging promotes the staging directory to the output directory.
// The previous output is moved aside first and removed asynchronously after
// the promotion, keeping the swap itself to two renames.
func (b *Builder) finalizeStaging() error {
	if b.stageDir == "" {
		return fmt.Errorf("no staging directory initialized")
	}
	if _, err := os.Stat(b.stageDir); err != nil {
		return fmt.Errorf("staging directory missing: %w", err)
	}

	prev := b.outputDir + ".prev"
	if err := os.RemoveAll(prev); err != nil {
		slog.Warn("Failed to remove stale backup", logfields.Path(prev), logfields.Error(err))
	}
	if _, err := os.Stat(b.outputDir); err == nil {
		if err := os.Rename(b.outputDir, prev); err != nil {
			return fmt.Errorf("backup existing output: %w", err)
		}
	}
	if err := os.Rename(b.stageDir, b.outputDir); err != nil {
		return fmt.Errorf("promote staging: %w", err)
	}
	b.stageDir = ""

	go func(p string) {
		if err := os.RemoveAll(p); err != nil {
			slog.Warn("Failed to remove previous output", logfields.Path(p), logfields.Error(err))
		}
	}(prev)

	slog.Info("Promoted staging directory", logfields.Path(b.outputDir))
	return nil
}

// abortStaging removes the staging directory after a failed build. Safe to
// call when staging was never initialized.
func (b *Builder) abortStaging() {
	if b.stageDir == "" {
		return
	}
	stage := b.stageDir
	b.stageDir = ""
	if err := os.RemoveAll(stage); err != nil {
		slog.Warn("Failed to remove staging directory", logfields.Path(stage), logfields.Error(err))
		return
	}
	slog.Debug("Removed staging directory", logfields.Path(stage))
}
