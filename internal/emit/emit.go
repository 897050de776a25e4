// Package emit produces the per-document detail artifacts.
package emit

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"git.home.luguber.info/inful/shardpress/internal/document"
)

// PostsDir is the output subdirectory holding detail artifacts.
const PostsDir = "posts"

// ErrRoundTrip is the serialization-internal failure class: an emitted
// artifact did not decode back to a value equal to its source document.
// It signals a schema or encoder defect, never bad input, and aborts the
// build before anything is published.
var ErrRoundTrip = errors.New("detail artifact failed round-trip verification")

// Artifact is one encoded detail artifact, named by its document's slug.
type Artifact struct {
	Name string
	Data []byte
}

// Emitter encodes documents into detail artifacts and re-validates each one.
type Emitter struct {
	encode func(any) ([]byte, error)
}

func New() *Emitter {
	return &Emitter{encode: func(v any) ([]byte, error) { return json.Marshal(v) }}
}

// NewWithMarshal returns an Emitter using a custom encoding function. The
// round-trip verification still applies, so the encoding must stay faithful
// to encoding/json semantics for document values.
func NewWithMarshal(fn func(any) ([]byte, error)) *Emitter {
	if fn == nil {
		return New()
	}
	return &Emitter{encode: fn}
}

// Emit encodes one document. The artifact name is a function of the slug
// only, so republishing an unchanged document reuses its key. Before
// returning, Emit decodes its own output and compares it against the input;
// any mismatch is an ErrRoundTrip.
func (e *Emitter) Emit(doc document.Document) (Artifact, error) {
	data, err := e.encode(doc)
	if err != nil {
		return Artifact{}, fmt.Errorf("encode %s: %w", doc.Slug, err)
	}

	var decoded document.Document
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Artifact{}, fmt.Errorf("%w: %s: %v", ErrRoundTrip, doc.Slug, err)
	}
	if !reflect.DeepEqual(doc, decoded) {
		return Artifact{}, fmt.Errorf("%w: %s: decoded value differs from source", ErrRoundTrip, doc.Slug)
	}

	return Artifact{Name: doc.Slug + ".json", Data: data}, nil
}

// EmitAll emits every document in the given order. Slug collisions are
// already excluded at load time, so names cannot conflict here; the only
// possible failure is the round-trip class, which aborts the batch.
func (e *Emitter) EmitAll(docs []document.Document) ([]Artifact, error) {
	artifacts := make([]Artifact, 0, len(docs))
	for _, doc := range docs {
		a, err := e.Emit(doc)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}
