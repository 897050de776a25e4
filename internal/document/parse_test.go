package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const validSource = `---
id: post-001
title: First Post
slug: first-post
date: 2024-03-01
tags:
  - go
  - builds
summary: A short summary.
---
# Heading

Body text.
`

func TestParse_ValidSource_PopulatesAllFields(t *testing.T) {
	doc, err := Parse([]byte(validSource))
	require.NoError(t, err)

	require.Equal(t, "post-001", doc.ID)
	require.Equal(t, "first-post", doc.Slug)
	require.Equal(t, "First Post", doc.Title)
	require.Equal(t, "2024-03-01", doc.Date.String())
	require.Equal(t, []string{"go", "builds"}, doc.Tags)
	require.Equal(t, "A short summary.", doc.Summary)
	require.NotEmpty(t, doc.Body)
	require.Equal(t, BlockHeading, doc.Body[0].Type)
}

func TestParse_OptionalFieldsAbsent_Defaulted(t *testing.T) {
	src := "---\nid: a\ntitle: T\nslug: a\ndate: 2024-01-02\n---\nbody\n"

	doc, err := Parse([]byte(src))
	require.NoError(t, err)
	require.NotNil(t, doc.Tags)
	require.Empty(t, doc.Tags)
	require.Empty(t, doc.Summary)
}

func TestParse_NoFrontMatter_MalformedFrontMatter(t *testing.T) {
	_, err := Parse([]byte("# Just a body\n"))

	pe, ok := AsParseError(err)
	require.True(t, ok)
	require.Equal(t, ReasonMalformedFrontMatter, pe.Reason)
	require.ErrorIs(t, err, ErrNoFrontMatter)
}

func TestParse_UnterminatedFrontMatter_MalformedFrontMatter(t *testing.T) {
	_, err := Parse([]byte("---\nid: a\nbody without closing\n"))

	pe, ok := AsParseError(err)
	require.True(t, ok)
	require.Equal(t, ReasonMalformedFrontMatter, pe.Reason)
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestParse_InvalidYAML_MalformedFrontMatter(t *testing.T) {
	_, err := Parse([]byte("---\nid: [unclosed\n---\nbody\n"))

	pe, ok := AsParseError(err)
	require.True(t, ok)
	require.Equal(t, ReasonMalformedFrontMatter, pe.Reason)
}

func TestParse_MissingRequiredFields_ReportsFieldName(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		field string
	}{
		{"id", "---\ntitle: T\nslug: s\ndate: 2024-01-02\n---\n", "id"},
		{"title", "---\nid: a\nslug: s\ndate: 2024-01-02\n---\n", "title"},
		{"slug", "---\nid: a\ntitle: T\ndate: 2024-01-02\n---\n", "slug"},
		{"date", "---\nid: a\ntitle: T\nslug: s\n---\n", "date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.src))
			pe, ok := AsParseError(err)
			require.True(t, ok)
			require.Equal(t, ReasonMissingField, pe.Reason)
			require.Equal(t, tc.field, pe.Field)
		})
	}
}

func TestParse_InvalidDate_ReportsInvalidDate(t *testing.T) {
	for _, bad := range []string{"2024-13-40", "March 1, 2024", "2024/03/01", "2024-03-01T10:00:00Z"} {
		src := "---\nid: a\ntitle: T\nslug: a\ndate: \"" + bad + "\"\n---\n"

		_, err := Parse([]byte(src))
		pe, ok := AsParseError(err)
		require.True(t, ok, "date %q should be rejected", bad)
		require.Equal(t, ReasonInvalidDate, pe.Reason)
	}
}

func TestParse_InvalidSlug_ReportsInvalidSlug(t *testing.T) {
	src := "---\nid: a\ntitle: T\nslug: \"Not A Slug!\"\ndate: 2024-01-02\n---\n"

	_, err := Parse([]byte(src))
	pe, ok := AsParseError(err)
	require.True(t, ok)
	require.Equal(t, ReasonInvalidSlug, pe.Reason)
	require.Equal(t, "slug", pe.Field)
}

func TestParse_DecomposedUnicode_NormalizedToNFC(t *testing.T) {
	// "e" followed by a combining acute accent.
	src := "---\nid: a\ntitle: \"Café\"\nslug: cafe\ndate: 2024-01-02\n---\n"

	doc, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Equal(t, "Café", doc.Title)
}

func TestParse_CRLFSource_Parses(t *testing.T) {
	src := "---\r\nid: a\r\ntitle: T\r\nslug: a\r\ndate: 2024-01-02\r\n---\r\nbody\r\n"

	doc, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Equal(t, "a", doc.ID)
	require.NotEmpty(t, doc.Body)
}

func TestParse_JSONRoundTrip_ReconstructsEqualDocument(t *testing.T) {
	doc, err := Parse([]byte(validSource))
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded Document
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, doc, decoded)
}
