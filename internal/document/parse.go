package document

import (
	"github.com/goliatone/go-slug"
	"golang.org/x/text/unicode/norm"
)

// Parse maps raw source bytes to a Document.
//
// A failure is always a *ParseError carrying the rejection reason; the caller
// decides whether that becomes a diagnostic or a hard stop. Parse never
// returns a partially valid Document.
//
// String fields are normalized to Unicode NFC so two differently-normalized
// spellings of the same text produce identical artifacts.
func Parse(source []byte) (Document, error) {
	raw, body, had, err := splitFrontMatter(source)
	if err != nil {
		return Document{}, &ParseError{Reason: ReasonMalformedFrontMatter, Err: err}
	}
	if !had {
		return Document{}, &ParseError{Reason: ReasonMalformedFrontMatter, Err: ErrNoFrontMatter}
	}

	fields, err := decodeFrontMatter(raw)
	if err != nil {
		return Document{}, &ParseError{Reason: ReasonMalformedFrontMatter, Err: err}
	}

	doc, err := buildDocument(fields)
	if err != nil {
		return Document{}, err
	}

	doc.Body = ParseBlocks(body)
	return doc, nil
}

func buildDocument(fields frontMatterFields) (Document, error) {
	for _, f := range []struct {
		name  string
		value string
	}{
		{"id", fields.ID},
		{"title", fields.Title},
		{"slug", fields.Slug},
		{"date", fields.Date},
	} {
		if f.value == "" {
			return Document{}, &ParseError{Reason: ReasonMissingField, Field: f.name}
		}
	}

	date, err := ParseDate(fields.Date)
	if err != nil {
		return Document{}, &ParseError{Reason: ReasonInvalidDate, Field: "date", Err: err}
	}

	slugValue := norm.NFC.String(fields.Slug)
	if !slug.IsValid(slugValue) {
		return Document{}, &ParseError{Reason: ReasonInvalidSlug, Field: "slug"}
	}

	tags := make([]string, 0, len(fields.Tags))
	for _, t := range fields.Tags {
		tags = append(tags, norm.NFC.String(t))
	}

	return Document{
		ID:      norm.NFC.String(fields.ID),
		Slug:    slugValue,
		Title:   norm.NFC.String(fields.Title),
		Date:    date,
		Tags:    tags,
		Summary: norm.NFC.String(fields.Summary),
	}, nil
}
