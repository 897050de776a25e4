package build

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/shardpress/internal/corpus"
	"git.home.luguber.info/inful/shardpress/internal/metrics"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// NewBuildReport constructs a report with a fresh build id.
func NewBuildReport() *BuildReport {
	return &BuildReport{
		SchemaVersion:   1,
		BuildID:         uuid.NewString(),
		Start:           time.Now(),
		StageDurations:  make(map[string]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
	}
}

// StageCount aggregates counts of outcomes for a stage.
type StageCount struct {
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

// BuildReport captures high-level metrics about a compile run. It is an
// operational record, not a content artifact: it carries timestamps and a
// random build id, so it is written next to the artifact tree but stays
// outside the deterministic artifact set.
type BuildReport struct {
	SchemaVersion   int
	BuildID         string
	Start           time.Time
	End             time.Time
	SourceFiles     int     // markdown files enumerated under the source root
	Documents       int     // documents accepted into the corpus
	Rejected        int     // sources rejected with diagnostics
	Pages           int     // page shards produced
	Artifacts       int     // artifacts assembled (pages + details + manifest)
	Errors          []error // fatal errors causing build abortion
	Warnings        []error // non-fatal issues recorded while continuing
	Diagnostics     []corpus.Diagnostic
	StageDurations  map[string]time.Duration
	StageErrorKinds map[StageName]StageErrorKind // stage -> error kind (fatal|warning|canceled)
	StageCounts     map[StageName]StageCount
	Outcome         BuildOutcome
}

// AddError records a fatal error.
func (r *BuildReport) AddError(err error) { r.Errors = append(r.Errors, err) }

// AddWarning records a non-fatal issue.
func (r *BuildReport) AddWarning(err error) { r.Warnings = append(r.Warnings, err) }

// Finish sets the end time of the report.
func (r *BuildReport) Finish() { r.End = time.Now() }

// RecordStageResult updates BuildReport counters and emits metrics (if recorder non-nil).
func (r *BuildReport) RecordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	if r.StageCounts == nil {
		r.StageCounts = make(map[StageName]StageCount)
	}
	sc := r.StageCounts[stage]
	switch res {
	case StageResultSuccess:
		sc.Success++
		if recorder != nil {
			recorder.IncStageResult(string(stage), metrics.ResultSuccess)
		}
	case StageResultWarning:
		sc.Warning++
		if recorder != nil {
			recorder.IncStageResult(string(stage), metrics.ResultWarning)
		}
	case StageResultFatal:
		sc.Fatal++
		if recorder != nil {
			recorder.IncStageResult(string(stage), metrics.ResultFatal)
		}
	case StageResultCanceled:
		sc.Canceled++
		if recorder != nil {
			recorder.IncStageResult(string(stage), metrics.ResultCanceled)
		}
	}
	r.StageCounts[stage] = sc
}

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	dur := r.End.Sub(r.Start)
	return fmt.Sprintf("build=%s sources=%d documents=%d rejected=%d pages=%d artifacts=%d duration=%s errors=%d warnings=%d outcome=%s",
		r.BuildID, r.SourceFiles, r.Documents, r.Rejected, r.Pages, r.Artifacts,
		dur.Truncate(time.Millisecond), len(r.Errors), len(r.Warnings), string(r.Outcome))
}

// DeriveOutcome sets the Outcome field based on recorded errors, warnings
// and diagnostics. Diagnostics count as warnings: a build that rejected
// sources finished, but not cleanly.
func (r *BuildReport) DeriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if errors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 || len(r.Diagnostics) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Persist writes the report atomically into the provided root directory.
func (r *BuildReport) Persist(root string) error {
	if r.End.IsZero() {
		r.Finish()
		r.DeriveOutcome()
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return fmt.Errorf("ensure root for report: %w", err)
	}
	// JSON
	jb, err := json.MarshalIndent(r.sanitizedCopy(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	jsonPath := filepath.Join(root, "build-report.json")
	tmpJSON := jsonPath + ".tmp"
	if err := os.WriteFile(tmpJSON, jb, 0o600); err != nil {
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := os.Rename(tmpJSON, jsonPath); err != nil {
		return fmt.Errorf("atomic rename json: %w", err)
	}
	// Text summary
	summaryPath := filepath.Join(root, "build-report.txt")
	tmpTxt := summaryPath + ".tmp"
	if err := os.WriteFile(tmpTxt, []byte(r.Summary()+"\n"), 0o600); err != nil {
		return fmt.Errorf("write temp report summary: %w", err)
	}
	if err := os.Rename(tmpTxt, summaryPath); err != nil {
		return fmt.Errorf("atomic rename summary: %w", err)
	}
	return nil
}

// buildReportSerializable mirrors BuildReport with error values flattened to
// strings for JSON friendliness.
type buildReportSerializable struct {
	SchemaVersion   int                      `json:"schema_version"`
	BuildID         string                   `json:"build_id"`
	Start           time.Time                `json:"start"`
	End             time.Time                `json:"end"`
	SourceFiles     int                      `json:"source_files"`
	Documents       int                      `json:"documents"`
	Rejected        int                      `json:"rejected"`
	Pages           int                      `json:"pages"`
	Artifacts       int                      `json:"artifacts"`
	Errors          []string                 `json:"errors"`
	Warnings        []string                 `json:"warnings"`
	Diagnostics     []corpus.Diagnostic      `json:"diagnostics"`
	StageDurations  map[string]time.Duration `json:"stage_durations"`
	StageErrorKinds map[string]string        `json:"stage_error_kinds"`
	StageCounts     map[string]StageCount    `json:"stage_counts"`
	Outcome         BuildOutcome             `json:"outcome"`
}

// sanitizedCopy returns a copy with error fields converted to strings and
// nil collections normalized so consumers always see arrays and objects.
func (r *BuildReport) sanitizedCopy() *buildReportSerializable {
	stageCounts := make(map[string]StageCount, len(r.StageCounts))
	for k, v := range r.StageCounts {
		stageCounts[string(k)] = v
	}
	sek := make(map[string]string, len(r.StageErrorKinds))
	for k, v := range r.StageErrorKinds {
		sek[string(k)] = string(v)
	}
	durations := r.StageDurations
	if durations == nil {
		durations = map[string]time.Duration{}
	}
	diags := r.Diagnostics
	if diags == nil {
		diags = []corpus.Diagnostic{}
	}

	s := &buildReportSerializable{
		SchemaVersion:   r.SchemaVersion,
		BuildID:         r.BuildID,
		Start:           r.Start,
		End:             r.End,
		SourceFiles:     r.SourceFiles,
		Documents:       r.Documents,
		Rejected:        r.Rejected,
		Pages:           r.Pages,
		Artifacts:       r.Artifacts,
		Errors:          make([]string, len(r.Errors)),
		Warnings:        make([]string, len(r.Warnings)),
		Diagnostics:     diags,
		StageDurations:  durations,
		StageErrorKinds: sek,
		StageCounts:     stageCounts,
		Outcome:         r.Outcome,
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	return s
}
