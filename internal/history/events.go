package history

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event type names stored in the event_type column. Stable contract; only append.
const (
	TypeBuildStarted     = "BuildStarted"
	TypeDocumentRejected = "DocumentRejected"
	TypeBuildFinished    = "BuildFinished"
)

// BuildStarted is emitted when a build begins.
type BuildStarted struct {
	BaseEvent
	Source string `json:"source"`
}

// NewBuildStarted creates a BuildStarted event.
func NewBuildStarted(buildID, source string) (*BuildStarted, error) {
	payload, err := json.Marshal(map[string]any{"source": source})
	if err != nil {
		return nil, fmt.Errorf("marshal BuildStarted payload: %w", err)
	}
	return &BuildStarted{
		BaseEvent: BaseEvent{
			EventBuildID:   buildID,
			EventType:      TypeBuildStarted,
			EventTimestamp: time.Now(),
			EventPayload:   payload,
		},
		Source: source,
	}, nil
}

// DocumentRejected is emitted for every source file excluded from the corpus.
type DocumentRejected struct {
	BaseEvent
	Source  string `json:"source"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// NewDocumentRejected creates a DocumentRejected event.
func NewDocumentRejected(buildID, source, reason, message string) (*DocumentRejected, error) {
	payload, err := json.Marshal(map[string]any{
		"source":  source,
		"reason":  reason,
		"message": message,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal DocumentRejected payload: %w", err)
	}
	return &DocumentRejected{
		BaseEvent: BaseEvent{
			EventBuildID:   buildID,
			EventType:      TypeDocumentRejected,
			EventTimestamp: time.Now(),
			EventPayload:   payload,
		},
		Source:  source,
		Reason:  reason,
		Message: message,
	}, nil
}

// BuildFinished is emitted when a build ends, regardless of outcome.
type BuildFinished struct {
	BaseEvent
	Outcome    string `json:"outcome"`
	Documents  int    `json:"documents"`
	Rejected   int    `json:"rejected"`
	Pages      int    `json:"pages"`
	DurationMS int64  `json:"duration_ms"`
}

// NewBuildFinished creates a BuildFinished event.
func NewBuildFinished(buildID, outcome string, documents, rejected, pages int, duration time.Duration) (*BuildFinished, error) {
	payload, err := json.Marshal(map[string]any{
		"outcome":     outcome,
		"documents":   documents,
		"rejected":    rejected,
		"pages":       pages,
		"duration_ms": duration.Milliseconds(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal BuildFinished payload: %w", err)
	}
	return &BuildFinished{
		BaseEvent: BaseEvent{
			EventBuildID:   buildID,
			EventType:      TypeBuildFinished,
			EventTimestamp: time.Now(),
			EventPayload:   payload,
		},
		Outcome:    outcome,
		Documents:  documents,
		Rejected:   rejected,
		Pages:      pages,
		DurationMS: duration.Milliseconds(),
	}, nil
}
