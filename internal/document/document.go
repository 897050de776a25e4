// Package document defines the parsed document model and the front matter +
// Markdown parsing that produces it.
//
// Parsing is pure: it maps source bytes to a Document or a ParseError and
// never touches the filesystem, so callers can run it from a worker pool
// without coordination.
package document

import (
	"encoding/json"
	"fmt"
	"time"
)

// Document is one fully parsed source unit.
//
// Slices are never nil on a parsed Document: Tags defaults to an empty slice
// and Body to an empty block list, so emitted JSON round-trips to an equal
// value.
type Document struct {
	ID      string   `json:"id"`
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Date    Date     `json:"date"`
	Tags    []string `json:"tags"`
	Summary string   `json:"summary"`
	Body    []Block  `json:"body"`
}

// SummaryOf projects the listing fields of a Document.
func SummaryOf(d Document) Summary {
	return Summary{
		ID:      d.ID,
		Slug:    d.Slug,
		Title:   d.Title,
		Date:    d.Date,
		Tags:    d.Tags,
		Summary: d.Summary,
	}
}

// Summary is the listing projection of a Document: everything a page shard
// needs, without the body.
type Summary struct {
	ID      string   `json:"id"`
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Date    Date     `json:"date"`
	Tags    []string `json:"tags"`
	Summary string   `json:"summary"`
}

// dateLayout is the only accepted calendar date form.
const dateLayout = "2006-01-02"

// Date is a calendar date (no time-of-day, no zone). Its wire form is
// YYYY-MM-DD in both YAML front matter and JSON artifacts.
type Date struct {
	t time.Time
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected %s", s, dateLayout)
	}
	return Date{t: t}, nil
}

// MustDate is ParseDate for tests and fixtures; it panics on a bad input.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string { return d.t.Format(dateLayout) }

// Before reports whether d is an earlier calendar date than other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// Equal reports whether d and other are the same calendar date.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
