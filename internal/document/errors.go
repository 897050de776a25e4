package document

import (
	"errors"
	"fmt"
)

// Reason is the stable vocabulary for why a source unit was rejected. The
// values appear verbatim in diagnostics reports, so they must not change
// between releases.
type Reason string

const (
	ReasonMalformedFrontMatter Reason = "malformed_frontmatter"
	ReasonMissingField         Reason = "missing_field"
	ReasonInvalidDate          Reason = "invalid_date"
	ReasonInvalidSlug          Reason = "invalid_slug"
	ReasonDuplicateKey         Reason = "duplicate_key"
	ReasonReadFailure          Reason = "read_failure"
)

// ErrMissingClosingDelimiter indicates the source started with a front matter
// delimiter but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// ErrNoFrontMatter indicates the source has no front matter block at all.
var ErrNoFrontMatter = errors.New("source has no front matter block")

// ParseError describes why a single source unit could not become a Document.
// It is the recoverable error class: the loader converts it into a diagnostic
// and continues with the rest of the corpus.
type ParseError struct {
	Reason Reason
	Field  string // set for missing_field / invalid_date / invalid_slug
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("%s: field %q: %v", e.Reason, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%s: field %q", e.Reason, e.Field)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	default:
		return string(e.Reason)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// AsParseError unwraps err to a *ParseError if one is in its chain.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
