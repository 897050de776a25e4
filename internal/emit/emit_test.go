package emit

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/shardpress/internal/document"
)

func sampleDoc(slug string) document.Document {
	return document.Document{
		ID:      "id-" + slug,
		Slug:    slug,
		Title:   "Title",
		Date:    document.MustDate("2024-05-01"),
		Tags:    []string{"go"},
		Summary: "sum",
		Body: []document.Block{
			{Type: document.BlockParagraph, Children: []document.Block{
				{Type: document.BlockText, Value: "hello"},
			}},
		},
	}
}

func TestEmit_NamesArtifactBySlug(t *testing.T) {
	a, err := New().Emit(sampleDoc("first-post"))
	require.NoError(t, err)
	require.Equal(t, "first-post.json", a.Name)
}

func TestEmit_ArtifactDecodesToEqualDocument(t *testing.T) {
	doc := sampleDoc("p")

	a, err := New().Emit(doc)
	require.NoError(t, err)

	var decoded document.Document
	require.NoError(t, json.Unmarshal(a.Data, &decoded))
	require.Equal(t, doc, decoded)
}

func TestEmit_Deterministic(t *testing.T) {
	doc := sampleDoc("p")

	first, err := New().Emit(doc)
	require.NoError(t, err)
	second, err := New().Emit(doc)
	require.NoError(t, err)

	require.Equal(t, first.Data, second.Data)
}

func TestEmit_TamperedEncoding_FailsRoundTrip(t *testing.T) {
	e := NewWithMarshal(func(any) ([]byte, error) {
		return json.Marshal(sampleDoc("somebody-else"))
	})

	_, err := e.Emit(sampleDoc("p"))
	require.ErrorIs(t, err, ErrRoundTrip)
}

func TestEmit_UndecodableEncoding_FailsRoundTrip(t *testing.T) {
	e := NewWithMarshal(func(any) ([]byte, error) { return []byte("{not json"), nil })

	_, err := e.Emit(sampleDoc("p"))
	require.ErrorIs(t, err, ErrRoundTrip)
}

func TestEmit_EncoderError_IsNotRoundTrip(t *testing.T) {
	boom := errors.New("boom")
	e := NewWithMarshal(func(any) ([]byte, error) { return nil, boom })

	_, err := e.Emit(sampleDoc("p"))
	require.ErrorIs(t, err, boom)
	require.False(t, errors.Is(err, ErrRoundTrip))
}

func TestEmitAll_PreservesOrder(t *testing.T) {
	docs := []document.Document{sampleDoc("a"), sampleDoc("b"), sampleDoc("c")}

	artifacts, err := New().EmitAll(docs)
	require.NoError(t, err)
	require.Len(t, artifacts, 3)
	require.Equal(t, "a.json", artifacts[0].Name)
	require.Equal(t, "c.json", artifacts[2].Name)
}

func TestEmitAll_AbortsOnFirstFailure(t *testing.T) {
	calls := 0
	e := NewWithMarshal(func(v any) ([]byte, error) {
		calls++
		if calls == 2 {
			return []byte("{not json"), nil
		}
		return json.Marshal(v)
	})

	_, err := e.EmitAll([]document.Document{sampleDoc("a"), sampleDoc("b"), sampleDoc("c")})
	require.ErrorIs(t, err, ErrRoundTrip)
	require.Equal(t, 2, calls)
}
