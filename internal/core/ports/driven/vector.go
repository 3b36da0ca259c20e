package driven

import (
	"context"

	"github.com/docuverse/docuverse/internal/core/domain"
)

// VectorIndex stores (vector, segment) pairs for one session and
// answers nearest-neighbour queries under cosine similarity.
//
// The dimension is fixed at creation; a brute-force scan is the
// expected implementation since per-session document counts are small.
type VectorIndex interface {
	// Insert adds all of a document's segments as one batch that
	// becomes visible atomically: a concurrent Search never observes
	// a partially-inserted document.
	// Fails with domain.ErrDimensionMismatch when any vector's
	// dimension differs from the index dimension; the index is left
	// unchanged.
	Insert(ctx context.Context, documentID string, segments []domain.Segment, vectors [][]float32) error

	// Remove deletes every entry belonging to documentID and returns
	// the number removed. Removing an absent document is a no-op.
	Remove(ctx context.Context, documentID string) (int, error)

	// Search returns the k entries most similar to the query vector,
	// sorted by non-increasing score, ties broken by insertion order
	// (earlier-inserted wins), truncated to the entry count when
	// fewer exist. k <= 0 fails with domain.ErrInvalidArgument;
	// searching an empty index returns an empty slice.
	Search(ctx context.Context, query []float32, k int) ([]SegmentHit, error)

	// Len returns the number of entries in the index.
	Len() int

	// Dimensions returns the vector dimension fixed at creation.
	Dimensions() int
}

// SegmentHit represents a similarity search result.
type SegmentHit struct {
	// Segment is the matched segment.
	Segment domain.Segment

	// Score is the cosine similarity score.
	Score float64
}
