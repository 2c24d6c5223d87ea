package index

import (
	"fmt"
	"math"
	"sort"
)

// Match is one similarity-search hit: the position of a stored vector and its
// inner-product score against the query. Absent matches are simply absent from
// the result slice; there is no sentinel position.
type Match struct {
	Pos   int
	Score float32
}

// Flat is an exact brute-force inner-product index over unit-length vectors.
// Vectors must be L2-normalized by the caller before Add and before Search;
// the index performs no normalization itself. With unit vectors the inner
// product equals cosine similarity.
//
// Flat is append-only during a build and immutable afterwards; concurrent
// Search calls on a frozen index are safe without locking.
type Flat struct {
	dim  int
	vecs [][]float32
}

// NewFlat creates an empty index for vectors of the given dimension.
func NewFlat(dim int) (*Flat, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dimension must be greater than 0, got %d", dim)
	}
	return &Flat{dim: dim}, nil
}

// Dim returns the vector dimension.
func (f *Flat) Dim() int {
	return f.dim
}

// Len returns the number of stored vectors.
func (f *Flat) Len() int {
	return len(f.vecs)
}

// At returns the stored vector at the given position. The returned slice is
// the index's own storage and must not be modified.
func (f *Flat) At(pos int) ([]float32, error) {
	if pos < 0 || pos >= len(f.vecs) {
		return nil, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, pos, len(f.vecs))
	}
	return f.vecs[pos], nil
}

// Add appends vectors in the given order. The assigned position of the first
// added vector equals the collection size before the call. All dimensions are
// validated up front so a bad batch never partially appends.
func (f *Flat) Add(vecs [][]float32) error {
	for i, v := range vecs {
		if len(v) != f.dim {
			return fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), f.dim)
		}
	}
	f.vecs = append(f.vecs, vecs...)
	return nil
}

// Search returns up to k positions ranked by descending inner-product score.
// If fewer than k vectors are stored, all of them are returned; an empty index
// yields an empty result. k <= 0 is invalid input. Ties order by ascending
// position, so results are fully deterministic.
func (f *Flat) Search(query []float32, k int) ([]Match, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0, got %d", k)
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("query has dimension %d, expected %d", len(query), f.dim)
	}

	matches := make([]Match, len(f.vecs))
	for i, v := range f.vecs {
		var score float32
		for j := range v {
			score += v[j] * query[j]
		}
		matches[i] = Match{Pos: i, Score: score}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Pos < matches[j].Pos
	})

	if k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

// Normalize scales v to unit length in place. Zero vectors are left unchanged.
func Normalize(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}
