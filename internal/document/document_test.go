package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDate_Valid(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	require.Equal(t, "2024-03-01", d.String())
}

func TestParseDate_RejectsNonCalendarForms(t *testing.T) {
	for _, bad := range []string{"", "2024-3-1", "01-03-2024", "2024-02-30", "yesterday"} {
		_, err := ParseDate(bad)
		require.Error(t, err, "input %q", bad)
	}
}

func TestDate_Ordering(t *testing.T) {
	older := MustDate("2023-12-31")
	newer := MustDate("2024-01-01")

	require.True(t, older.Before(newer))
	require.False(t, newer.Before(older))
	require.True(t, newer.Equal(MustDate("2024-01-01")))
	require.True(t, Date{}.IsZero())
	require.False(t, newer.IsZero())
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := MustDate("2024-06-15")

	data, err := json.Marshal(d)
	require.NoError(t, err)
	require.Equal(t, `"2024-06-15"`, string(data))

	var decoded Date
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, d, decoded)
}

func TestDate_UnmarshalRejectsBadInput(t *testing.T) {
	var d Date
	require.Error(t, json.Unmarshal([]byte(`"2024-13-01"`), &d))
	require.Error(t, json.Unmarshal([]byte(`42`), &d))
}

func TestSummaryOf_ProjectsListingFields(t *testing.T) {
	doc := Document{
		ID:      "a",
		Slug:    "a-slug",
		Title:   "A",
		Date:    MustDate("2024-01-02"),
		Tags:    []string{"t"},
		Summary: "s",
		Body:    []Block{{Type: BlockThematicBreak}},
	}

	s := SummaryOf(doc)
	require.Equal(t, doc.ID, s.ID)
	require.Equal(t, doc.Slug, s.Slug)
	require.Equal(t, doc.Title, s.Title)
	require.Equal(t, doc.Date, s.Date)
	require.Equal(t, doc.Tags, s.Tags)
	require.Equal(t, doc.Summary, s.Summary)
}
