package history

import (
	"encoding/json"
	"sort"
	"time"
)

// StatusRunning marks a build with a BuildStarted event but no BuildFinished
// yet (or one that never finished). Finished builds carry their outcome
// string (success, warning, failed, canceled) as status.
const StatusRunning = "running"

// BuildSummary is a read model folding one build's events into a single row.
type BuildSummary struct {
	BuildID    string     `json:"build_id"`
	Source     string     `json:"source,omitempty"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Documents  int        `json:"documents"`
	Rejected   int        `json:"rejected"`
	Pages      int        `json:"pages"`
}

// Summarize folds events into per-build summaries ordered newest first.
// The input may be in any order; insert order (event ID) decides how
// conflicting events within a build are applied.
func Summarize(events []Event) []BuildSummary {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID() < sorted[j].ID() })

	byBuild := make(map[string]*BuildSummary)
	order := make([]string, 0, len(sorted))

	get := func(ev Event) *BuildSummary {
		s, ok := byBuild[ev.BuildID()]
		if !ok {
			s = &BuildSummary{BuildID: ev.BuildID(), Status: StatusRunning, StartedAt: ev.Timestamp()}
			byBuild[ev.BuildID()] = s
			order = append(order, ev.BuildID())
		}
		return s
	}

	for _, ev := range sorted {
		switch ev.Type() {
		case TypeBuildStarted:
			s := get(ev)
			s.StartedAt = ev.Timestamp()
			var p struct {
				Source string `json:"source"`
			}
			if err := json.Unmarshal(ev.Payload(), &p); err == nil {
				s.Source = p.Source
			}
		case TypeDocumentRejected:
			get(ev).Rejected++
		case TypeBuildFinished:
			s := get(ev)
			ts := ev.Timestamp()
			s.FinishedAt = &ts
			var p struct {
				Outcome   string `json:"outcome"`
				Documents int    `json:"documents"`
				Rejected  int    `json:"rejected"`
				Pages     int    `json:"pages"`
			}
			if err := json.Unmarshal(ev.Payload(), &p); err == nil {
				s.Status = p.Outcome
				s.Documents = p.Documents
				s.Rejected = p.Rejected
				s.Pages = p.Pages
			}
		}
	}

	out := make([]BuildSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byBuild[id])
	}
	// Newest first; fall back to build ID for equal start times.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].BuildID > out[j].BuildID
	})
	return out
}
