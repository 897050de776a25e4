// Package index builds the canonical ordering over a loaded corpus.
//
// Everything downstream (page shards, detail artifacts, the manifest) reads
// from the Corpus built here and never re-sorts, so output ordering depends
// only on document fields, never on filesystem enumeration or scheduling.
package index

import (
	"sort"

	"git.home.luguber.info/inful/shardpress/internal/document"
	"git.home.luguber.info/inful/shardpress/internal/util/sets"
)

// Corpus is the read-only product of the indexing pass: documents and their
// summaries in canonical order, plus the tag index and pagination counts.
type Corpus struct {
	Documents []document.Document
	Summaries []document.Summary
	PageSize  int
	PageCount int
	Tags      map[string][]string
}

// Build sorts the documents into canonical order (publish date descending,
// id ascending as the tie break) and derives the tag index. pageSize must be
// positive; the configuration layer enforces that before a build starts.
//
// The input slice is not mutated.
func Build(docs []document.Document, pageSize int) Corpus {
	sorted := make([]document.Document, len(docs))
	copy(sorted, docs)

	sort.Slice(sorted, func(i, j int) bool {
		di, dj := sorted[i].Date, sorted[j].Date
		if !di.Equal(dj) {
			return dj.Before(di)
		}
		return sorted[i].ID < sorted[j].ID
	})

	summaries := make([]document.Summary, len(sorted))
	tags := make(map[string][]string)
	for i, d := range sorted {
		summaries[i] = document.SummaryOf(d)
		// A tag repeated in one document's front matter indexes the document once.
		seen := sets.New[string]()
		for _, tag := range d.Tags {
			if seen.Has(tag) {
				continue
			}
			seen.Add(tag)
			tags[tag] = append(tags[tag], d.Slug)
		}
	}

	return Corpus{
		Documents: sorted,
		Summaries: summaries,
		PageSize:  pageSize,
		PageCount: pageCount(len(sorted), pageSize),
		Tags:      tags,
	}
}

func pageCount(total, pageSize int) int {
	if total == 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// TagNames returns the indexed tags in lexicographic order.
func (c Corpus) TagNames() []string {
	names := make([]string, 0, len(c.Tags))
	for name := range c.Tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Slugs returns every document slug in canonical order.
func (c Corpus) Slugs() []string {
	slugs := make([]string, len(c.Summaries))
	for i, s := range c.Summaries {
		slugs[i] = s.Slug
	}
	return slugs
}
