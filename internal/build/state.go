package build

import (
	"git.home.luguber.info/inful/shardpress/internal/corpus"
	"git.home.luguber.info/inful/shardpress/internal/emit"
	"git.home.luguber.info/inful/shardpress/internal/index"
)

// Phase describes where in its lifecycle a build currently is. Phases move
// strictly forward, ending in succeeded or failed.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseLoading    Phase = "loading"
	PhaseIndexing   Phase = "indexing"
	PhaseAssembling Phase = "assembling"
	PhasePublishing Phase = "publishing"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// phaseForStage maps pipeline stages onto lifecycle phases. Unknown stages
// leave the phase untouched.
func phaseForStage(name StageName) Phase {
	switch name {
	case StageLoad:
		return PhaseLoading
	case StageIndex:
		return PhaseIndexing
	case StageAssemble:
		return PhaseAssembling
	case StagePublish:
		return PhasePublishing
	default:
		return ""
	}
}

// BuildState carries mutable state across stages. Each stage reads what the
// previous stages produced and fills in its own slice of the state; the
// runner owns the sequencing.
type BuildState struct {
	Builder *Builder
	Report  *BuildReport

	// Loaded is the raw load result: accepted documents plus diagnostics.
	Loaded corpus.Result
	// Corpus is the canonical ordering derived by the index stage.
	Corpus index.Corpus
	// Manifest, Pages and Posts are the in-memory artifact set assembled
	// before anything touches the output tree.
	Manifest []byte
	Pages    []emit.Artifact
	Posts    []emit.Artifact
}
