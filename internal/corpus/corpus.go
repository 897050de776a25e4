// Package corpus discovers and loads a source tree of Markdown documents.
//
// Loading has two phases: a parallel map over independent files (read +
// parse) and a sequential fold that reconciles duplicates and collects
// diagnostics. Only the fold mutates shared state, so the parallel phase
// needs no locks, and the winner of a duplicate key is always the first
// file in enumeration order regardless of scheduling.
package corpus

import (
	"errors"
	"fmt"

	"git.home.luguber.info/inful/shardpress/internal/document"
)

// ErrSourceRootUnreadable is the structural failure for a source root that
// cannot be enumerated at all. Per-file problems never surface as errors;
// they become Diagnostics.
var ErrSourceRootUnreadable = errors.New("source root not readable")

// SourceFile identifies one enumerated source unit. Rel is the
// slash-separated path relative to the source root and is the identity used
// in diagnostics and duplicate reconciliation.
type SourceFile struct {
	Path string
	Rel  string
}

// Diagnostic records one rejected source unit and why. Diagnostics are data,
// not errors: a build with diagnostics still succeeds.
type Diagnostic struct {
	Source  string          `json:"source"`
	Reason  document.Reason `json:"reason"`
	Message string          `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Source, d.Reason, d.Message)
}

// Result is the outcome of loading a corpus: the accepted documents in
// enumeration order, plus one Diagnostic per rejected source unit.
type Result struct {
	Documents   []document.Document
	Diagnostics []Diagnostic
}
