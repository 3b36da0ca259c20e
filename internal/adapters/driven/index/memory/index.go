// Package memory provides an in-memory vector index using brute-force
// cosine similarity. Per-session document counts are small (tens, not
// millions), so a linear scan is preferred over an approximate
// structure for correctness and simplicity.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// entry pairs a segment with its vector. seq preserves insertion order
// for tie-breaking.
type entry struct {
	documentID string
	segment    domain.Segment
	vector     []float32
	norm       float64
	seq        int
}

// Index is a brute-force cosine similarity index over a session's
// segments. The dimension is fixed at creation. A document's segments
// are inserted as one batch under a single lock acquisition, so
// readers never observe a partially-inserted document.
type Index struct {
	mu      sync.RWMutex
	dims    int
	entries []entry
	nextSeq int
}

// New creates an empty index for vectors of the given dimension.
func New(dimensions int) (*Index, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d",
			domain.ErrInvalidArgument, dimensions)
	}
	return &Index{dims: dimensions}, nil
}

// Insert adds all of a document's segments atomically.
// Every vector is validated before any mutation: on dimension
// mismatch the index is left unchanged.
func (idx *Index) Insert(_ context.Context, documentID string, segments []domain.Segment, vectors [][]float32) error {
	if len(segments) != len(vectors) {
		return fmt.Errorf("%w: %d segments but %d vectors",
			domain.ErrInvalidArgument, len(segments), len(vectors))
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for i, v := range vectors {
		if len(v) != idx.dims {
			return fmt.Errorf("%w: vector %d has dimension %d, index expects %d",
				domain.ErrDimensionMismatch, i, len(v), idx.dims)
		}
	}

	for i := range segments {
		idx.entries = append(idx.entries, entry{
			documentID: documentID,
			segment:    segments[i],
			vector:     vectors[i],
			norm:       norm(vectors[i]),
			seq:        idx.nextSeq,
		})
		idx.nextSeq++
	}

	return nil
}

// Remove deletes every entry belonging to documentID.
func (idx *Index) Remove(_ context.Context, documentID string) (int, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	kept := idx.entries[:0]
	removed := 0
	for _, e := range idx.entries {
		if e.documentID == documentID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	idx.entries = kept
	return removed, nil
}

// Search returns the k most similar entries to the query vector.
// Results are sorted by non-increasing cosine similarity; equal scores
// keep insertion order (earlier-inserted wins).
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.SegmentHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidArgument, k)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.entries) == 0 {
		return []driven.SegmentHit{}, nil
	}
	if len(query) != idx.dims {
		return nil, fmt.Errorf("%w: query has dimension %d, index expects %d",
			domain.ErrDimensionMismatch, len(query), idx.dims)
	}

	qnorm := norm(query)

	scored := make([]int, len(idx.entries))
	scores := make([]float64, len(idx.entries))
	for i, e := range idx.entries {
		scored[i] = i
		scores[i] = cosine(query, qnorm, e.vector, e.norm)
	}

	// Entries are already in insertion order, so a stable sort keeps
	// the earlier-inserted entry first on equal scores.
	sort.SliceStable(scored, func(a, b int) bool {
		return scores[scored[a]] > scores[scored[b]]
	})

	if k > len(scored) {
		k = len(scored)
	}

	hits := make([]driven.SegmentHit, k)
	for i := 0; i < k; i++ {
		j := scored[i]
		hits[i] = driven.SegmentHit{
			Segment: idx.entries[j].segment,
			Score:   scores[j],
		}
	}
	return hits, nil
}

// Len returns the number of entries in the index.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Dimensions returns the vector dimension fixed at creation.
func (idx *Index) Dimensions() int {
	return idx.dims
}

// norm computes the Euclidean norm of v.
func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// cosine computes the cosine similarity of a and b given their norms.
// Zero vectors score 0 rather than dividing by zero.
func cosine(a []float32, anorm float64, b []float32, bnorm float64) float64 {
	if anorm == 0 || bnorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (anorm * bnorm)
}
