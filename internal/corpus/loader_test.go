package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/shardpress/internal/document"
)

func writeSource(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func postSource(id, slug, date string) string {
	return "---\nid: " + id + "\ntitle: Title " + id + "\nslug: " + slug + "\ndate: " + date + "\n---\nBody of " + id + ".\n"
}

func TestDiscover_FindsMarkdownSortedByRelativePath(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "zz.md", "z")
	writeSource(t, root, "aa.md", "a")
	writeSource(t, root, "nested/deep.markdown", "d")
	writeSource(t, root, "notes.txt", "not markdown")
	writeSource(t, root, ".hidden.md", "hidden")
	writeSource(t, root, ".archive/old.md", "hidden dir")

	files, err := Discover(root)
	require.NoError(t, err)

	rels := make([]string, 0, len(files))
	for _, f := range files {
		rels = append(rels, f.Rel)
	}
	require.Equal(t, []string{"aa.md", "nested/deep.markdown", "zz.md"}, rels)
}

func TestDiscover_MissingRoot_ReturnsStructuralError(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrSourceRootUnreadable)
}

func TestDiscover_RootIsFile_ReturnsStructuralError(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := Discover(file)
	require.ErrorIs(t, err, ErrSourceRootUnreadable)
}

func TestLoad_ValidCorpus_NoDiagnostics(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "a.md", postSource("a", "post-a", "2024-01-01"))
	writeSource(t, root, "b.md", postSource("b", "post-b", "2024-01-02"))

	res, err := NewLoader(root, 2).Load()
	require.NoError(t, err)
	require.Len(t, res.Documents, 2)
	require.Empty(t, res.Diagnostics)
	require.Equal(t, "a", res.Documents[0].ID)
	require.Equal(t, "b", res.Documents[1].ID)
}

func TestLoad_MalformedDocuments_RejectedNotFatal(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "good.md", postSource("g", "good", "2024-01-01"))
	writeSource(t, root, "no-date.md", "---\nid: x\ntitle: X\nslug: x\n---\nbody\n")
	writeSource(t, root, "bad-date.md", "---\nid: y\ntitle: Y\nslug: y\ndate: soon\n---\nbody\n")

	res, err := NewLoader(root, 1).Load()
	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	require.Equal(t, "g", res.Documents[0].ID)
	require.Len(t, res.Diagnostics, 2)

	bySource := map[string]Diagnostic{}
	for _, d := range res.Diagnostics {
		bySource[d.Source] = d
	}
	require.Equal(t, document.ReasonInvalidDate, bySource["bad-date.md"].Reason)
	require.Equal(t, document.ReasonMissingField, bySource["no-date.md"].Reason)
}

func TestLoadFiles_UnreadableFile_ReadFailureDiagnostic(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "ok.md", postSource("ok", "ok", "2024-01-01"))

	files := []SourceFile{
		{Path: filepath.Join(root, "ok.md"), Rel: "ok.md"},
		{Path: filepath.Join(root, "gone.md"), Rel: "gone.md"},
	}

	res := LoadFiles(files, 2)
	require.Len(t, res.Documents, 1)
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, "gone.md", res.Diagnostics[0].Source)
	require.Equal(t, document.ReasonReadFailure, res.Diagnostics[0].Reason)
}

func TestLoadFiles_DuplicateSlug_FirstEnumeratedWins(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "first.md", postSource("id-1", "shared", "2024-01-01"))
	writeSource(t, root, "second.md", postSource("id-2", "shared", "2024-01-02"))

	files := []SourceFile{
		{Path: filepath.Join(root, "first.md"), Rel: "first.md"},
		{Path: filepath.Join(root, "second.md"), Rel: "second.md"},
	}

	res := LoadFiles(files, 2)
	require.Len(t, res.Documents, 1)
	require.Equal(t, "id-1", res.Documents[0].ID)
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, "second.md", res.Diagnostics[0].Source)
	require.Equal(t, document.ReasonDuplicateKey, res.Diagnostics[0].Reason)
	require.Contains(t, res.Diagnostics[0].Message, "first.md")
}

func TestLoadFiles_DuplicateID_FirstEnumeratedWins(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "first.md", postSource("same-id", "slug-one", "2024-01-01"))
	writeSource(t, root, "second.md", postSource("same-id", "slug-two", "2024-01-02"))

	files := []SourceFile{
		{Path: filepath.Join(root, "first.md"), Rel: "first.md"},
		{Path: filepath.Join(root, "second.md"), Rel: "second.md"},
	}

	res := LoadFiles(files, 1)
	require.Len(t, res.Documents, 1)
	require.Equal(t, "slug-one", res.Documents[0].Slug)
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, document.ReasonDuplicateKey, res.Diagnostics[0].Reason)
}

// Reversing the enumeration changes the duplicate winner. This is the one
// place where enumeration order is observable, which is why Discover pins a
// lexicographic order instead of trusting the filesystem.
func TestLoadFiles_DuplicateWinnerFollowsEnumerationOrder(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "first.md", postSource("id-1", "shared", "2024-01-01"))
	writeSource(t, root, "second.md", postSource("id-2", "shared", "2024-01-02"))

	forward := []SourceFile{
		{Path: filepath.Join(root, "first.md"), Rel: "first.md"},
		{Path: filepath.Join(root, "second.md"), Rel: "second.md"},
	}
	reversed := []SourceFile{forward[1], forward[0]}

	resForward := LoadFiles(forward, 2)
	resReversed := LoadFiles(reversed, 2)

	require.Equal(t, "id-1", resForward.Documents[0].ID)
	require.Equal(t, "id-2", resReversed.Documents[0].ID)
}

func TestLoadFiles_ParallelLoad_PreservesEnumerationOrder(t *testing.T) {
	root := t.TempDir()

	var files []SourceFile
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		rel := name + ".md"
		writeSource(t, root, rel, postSource(name, "slug-"+name, "2024-01-01"))
		files = append(files, SourceFile{Path: filepath.Join(root, rel), Rel: rel})
	}

	res := LoadFiles(files, 4)
	require.Len(t, res.Documents, len(files))
	for i, f := range files {
		require.Equal(t, f.Rel[:1], res.Documents[i].ID)
	}
}

func TestLoad_EmptyRoot_EmptyResult(t *testing.T) {
	res, err := NewLoader(t.TempDir(), 0).Load()
	require.NoError(t, err)
	require.Empty(t, res.Documents)
	require.Empty(t, res.Diagnostics)
}
