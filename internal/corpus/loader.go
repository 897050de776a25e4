package corpus

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"git.home.luguber.info/inful/shardpress/internal/document"
	"git.home.luguber.info/inful/shardpress/internal/logfields"
)

// Loader loads every Markdown file under a source root.
type Loader struct {
	root        string
	parallelism int
}

// NewLoader returns a Loader for root. parallelism bounds the worker pool;
// values below 1 fall back to the CPU count.
func NewLoader(root string, parallelism int) *Loader {
	if parallelism < 1 {
		parallelism = runtime.NumCPU()
	}
	return &Loader{root: root, parallelism: parallelism}
}

// Load enumerates the source root and parses everything it finds. The
// returned error is structural only (unreadable root); per-file failures are
// reported through Result.Diagnostics.
func (l *Loader) Load() (Result, error) {
	files, err := Discover(l.root)
	if err != nil {
		return Result{}, err
	}
	return LoadFiles(files, l.parallelism), nil
}

// LoadFiles parses an explicit enumeration of source files. The enumeration
// order decides which document wins a duplicate id or slug, so callers that
// bypass Discover take on that contract themselves.
func LoadFiles(files []SourceFile, parallelism int) Result {
	parsed := runOrdered(files, parallelism, func(f SourceFile) (document.Document, error) {
		content, err := os.ReadFile(f.Path)
		if err != nil {
			return document.Document{}, fmt.Errorf("read %s: %w", f.Rel, err)
		}
		return document.Parse(content)
	})

	return reconcile(files, parsed)
}

// reconcile is the single-writer fold after the parallel phase: it collects
// diagnostics and drops later-enumerated documents whose id or slug is
// already taken.
func reconcile(files []SourceFile, parsed []orderedResult[document.Document]) Result {
	seenID := make(map[string]string, len(files))
	seenSlug := make(map[string]string, len(files))

	res := Result{Documents: make([]document.Document, 0, len(files))}

	reject := func(source string, reason document.Reason, message string) {
		res.Diagnostics = append(res.Diagnostics, Diagnostic{Source: source, Reason: reason, Message: message})
		slog.Warn("Source rejected",
			logfields.Source(source),
			logfields.Reason(string(reason)),
			slog.String("detail", message))
	}

	for i, p := range parsed {
		source := files[i].Rel

		if p.Err != nil {
			reason := document.ReasonReadFailure
			if pe, ok := document.AsParseError(p.Err); ok {
				reason = pe.Reason
			}
			reject(source, reason, p.Err.Error())
			continue
		}

		doc := p.Value
		if prev, dup := seenID[doc.ID]; dup {
			reject(source, document.ReasonDuplicateKey, fmt.Sprintf("id %q already used by %s", doc.ID, prev))
			continue
		}
		if prev, dup := seenSlug[doc.Slug]; dup {
			reject(source, document.ReasonDuplicateKey, fmt.Sprintf("slug %q already used by %s", doc.Slug, prev))
			continue
		}

		seenID[doc.ID] = source
		seenSlug[doc.Slug] = source
		res.Documents = append(res.Documents, doc)
	}

	slog.Debug("Corpus loaded",
		logfields.Count(len(res.Documents)),
		slog.Int("rejected", len(res.Diagnostics)))
	return res
}
