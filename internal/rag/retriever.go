package rag

import (
	"context"
	"errors"
	"fmt"

	"clipchat-ai/internal/index"
)

// Retriever embeds a query and joins the nearest index positions back to
// their transcript excerpts.
type Retriever struct {
	embedder Embedder
	index    *index.Index
}

// NewRetriever creates a new Retriever over an in-memory index.
func NewRetriever(embedder Embedder, ix *index.Index) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    ix,
	}
}

// Retrieve embeds the query, searches the index, and resolves each match
// position to its metadata record. Results keep the index's ordering, which
// is descending similarity.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]Excerpt, error) {
	if query == "" {
		return nil, &ValidationError{Field: "query", Message: "cannot be empty"}
	}
	if k <= 0 {
		return nil, &ValidationError{Field: "k", Message: "must be positive"}
	}

	vecs, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, WrapError(err, "failed to embed query")
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("expected 1 query embedding, got %d", len(vecs))
	}
	qvec := vecs[0]
	index.Normalize(qvec)

	matches, err := r.index.Search(qvec, k)
	if err != nil {
		return nil, WrapError(err, "index search failed")
	}

	excerpts := make([]Excerpt, 0, len(matches))
	for _, m := range matches {
		rec, err := r.index.Lookup(m.Pos)
		if err != nil {
			if errors.Is(err, index.ErrOutOfRange) {
				continue
			}
			return nil, WrapError(err, "metadata lookup failed")
		}
		excerpts = append(excerpts, Excerpt{
			SourceID: rec.SourceID,
			Title:    rec.Title,
			URL:      rec.URL,
			Text:     rec.Text,
			Score:    m.Score,
		})
	}
	return excerpts, nil
}
