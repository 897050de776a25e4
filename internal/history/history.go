// Package history records build lifecycle events in a local SQLite database.
//
// Every build appends a handful of events: one BuildStarted, one
// DocumentRejected per excluded source, one BuildFinished. The store is
// strictly best-effort: callers log and continue when a write fails, so a
// missing or broken database never blocks a build.
package history

import (
	"context"
	"time"
)

// Store defines the interface for persisting and retrieving build events.
type Store interface {
	// Append adds a new event to the store.
	Append(ctx context.Context, buildID, eventType string, payload []byte) error

	// GetByBuildID retrieves all events for a specific build.
	GetByBuildID(ctx context.Context, buildID string) ([]Event, error)

	// GetRange retrieves events within a time range.
	GetRange(ctx context.Context, start, end time.Time) ([]Event, error)

	// Recent retrieves the newest n events, newest first.
	Recent(ctx context.Context, n int) ([]Event, error)

	// Close closes the store and releases resources.
	Close() error
}

// Event represents a recorded build lifecycle event.
type Event interface {
	// ID returns the unique identifier for this event.
	ID() int64
	// BuildID returns the build identifier this event belongs to.
	BuildID() string
	// Type returns the event type name.
	Type() string
	// Timestamp returns when the event occurred.
	Timestamp() time.Time
	// Payload returns the event data as bytes.
	Payload() []byte
}

// BaseEvent provides a default implementation of Event.
type BaseEvent struct {
	EventID        int64
	EventBuildID   string
	EventType      string
	EventTimestamp time.Time
	EventPayload   []byte
}

func (e *BaseEvent) ID() int64            { return e.EventID }
func (e *BaseEvent) BuildID() string      { return e.EventBuildID }
func (e *BaseEvent) Type() string         { return e.EventType }
func (e *BaseEvent) Timestamp() time.Time { return e.EventTimestamp }
func (e *BaseEvent) Payload() []byte      { return e.EventPayload }

// Record persists ev to s. A nil store is a no-op so callers can leave
// history unconfigured.
func Record(ctx context.Context, s Store, ev Event) error {
	if s == nil {
		return nil
	}
	return s.Append(ctx, ev.BuildID(), ev.Type(), ev.Payload())
}
