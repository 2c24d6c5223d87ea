// Package index implements the retrieval core: a flat inner-product vector
// index paired position-for-position with an ordered metadata store, persisted
// together as one artifact pair bound by a build ID.
package index

import (
	"fmt"

	"github.com/google/uuid"
)

// Index pairs a Flat vector index with a MetaStore. The two collections always
// have identical length and position i in one corresponds to position i in the
// other. Index is the only way to mutate either, so the correspondence cannot
// drift: inserts are paired and all-or-nothing.
type Index struct {
	buildID string
	flat    *Flat
	meta    *MetaStore
}

// New creates an empty index for the given vector dimension and mints a fresh
// build ID. The build ID is written into both persisted artifacts so a
// mismatched pair is rejected at load time.
func New(dim int) (*Index, error) {
	flat, err := NewFlat(dim)
	if err != nil {
		return nil, err
	}
	return &Index{
		buildID: uuid.New().String(),
		flat:    flat,
		meta:    NewMetaStore(),
	}, nil
}

// BuildID returns the identifier minted for this build.
func (ix *Index) BuildID() string {
	return ix.buildID
}

// Dim returns the vector dimension.
func (ix *Index) Dim() int {
	return ix.flat.Dim()
}

// Len returns the number of entries. The vector and metadata collections are
// always the same length.
func (ix *Index) Len() int {
	return ix.flat.Len()
}

// AddBatch appends vectors and their records as pairs. Vectors must already be
// unit-normalized. The lengths must match and the whole batch is validated
// before anything is appended, so a failed call leaves the index untouched.
func (ix *Index) AddBatch(vecs [][]float32, recs []Record) error {
	if len(vecs) != len(recs) {
		return fmt.Errorf("vector/record count mismatch: %d vectors, %d records", len(vecs), len(recs))
	}
	if err := ix.flat.Add(vecs); err != nil {
		return err
	}
	for _, rec := range recs {
		ix.meta.Append(rec)
	}
	return nil
}

// AddSource records a per-source summary.
func (ix *Index) AddSource(s SourceSummary) {
	ix.meta.AddSource(s)
}

// Sources returns the per-source summaries in ingestion order.
func (ix *Index) Sources() []SourceSummary {
	return ix.meta.Sources()
}

// Search returns up to k matches ranked by descending similarity.
func (ix *Index) Search(query []float32, k int) ([]Match, error) {
	return ix.flat.Search(query, k)
}

// Lookup returns the record at a search-result position, or ErrOutOfRange.
func (ix *Index) Lookup(pos int) (Record, error) {
	return ix.meta.Get(pos)
}
