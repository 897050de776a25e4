// Package shard slices an indexed corpus into fixed-size page artifacts and
// the site manifest.
//
// Shard identity is a function of the page number alone. Republishing an
// unchanged corpus therefore reuses the same keys, which is what lets a CDN
// keep serving cached pages instead of invalidating on every build.
package shard

import (
	"fmt"

	"git.home.luguber.info/inful/shardpress/internal/document"
	"git.home.luguber.info/inful/shardpress/internal/index"
)

// SchemaVersion is bumped whenever the artifact shape changes incompatibly.
const SchemaVersion = 1

// ManifestFileName is the manifest artifact name in the output root.
const ManifestFileName = "site_data.json"

// PagesDir is the output subdirectory holding page shards.
const PagesDir = "pages"

// Page is one shard of the corpus listing: its 1-indexed page number and the
// summaries it covers, in canonical order.
type Page struct {
	Page      int                `json:"page"`
	Documents []document.Summary `json:"documents"`
}

// PageFileName names the artifact for a page number. Nothing about the
// content participates, so keys stay stable across republishes.
func PageFileName(n int) string {
	return fmt.Sprintf("page_%d.json", n)
}

// Site is the descriptive metadata carried into the manifest.
type Site struct {
	Title       string
	Subtitle    string
	Description string
}

// Manifest is the single entry-point artifact the presentation layer reads
// first: corpus totals, pagination shape, and the tag index.
type Manifest struct {
	SchemaVersion  int                 `json:"schema_version"`
	Title          string              `json:"title"`
	Subtitle       string              `json:"subtitle"`
	Description    string              `json:"description"`
	TotalDocuments int                 `json:"total_documents"`
	PageSize       int                 `json:"page_size"`
	TotalPages     int                 `json:"total_pages"`
	Tags           map[string][]string `json:"tags"`
}

// Paginate splits the corpus summaries into PageCount pages of PageSize
// entries each, the last page holding the remainder. An empty corpus yields
// no pages at all rather than one empty page.
func Paginate(c index.Corpus) []Page {
	pages := make([]Page, 0, c.PageCount)
	for n := 1; n <= c.PageCount; n++ {
		start := (n - 1) * c.PageSize
		end := min(start+c.PageSize, len(c.Summaries))

		docs := make([]document.Summary, end-start)
		copy(docs, c.Summaries[start:end])
		pages = append(pages, Page{Page: n, Documents: docs})
	}
	return pages
}

// BuildManifest derives the manifest from an indexed corpus. The manifest
// carries no timestamp: it belongs to the deterministic artifact set, and two
// builds of the same corpus must produce identical bytes.
func BuildManifest(c index.Corpus, site Site) Manifest {
	tags := c.Tags
	if tags == nil {
		tags = map[string][]string{}
	}
	return Manifest{
		SchemaVersion:  SchemaVersion,
		Title:          site.Title,
		Subtitle:       site.Subtitle,
		Description:    site.Description,
		TotalDocuments: len(c.Summaries),
		PageSize:       c.PageSize,
		TotalPages:     c.PageCount,
		Tags:           tags,
	}
}
