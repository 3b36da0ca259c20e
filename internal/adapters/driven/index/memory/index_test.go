package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuverse/docuverse/internal/core/domain"
)

func segs(documentID string, n int) []domain.Segment {
	out := make([]domain.Segment, n)
	for i := range out {
		out[i] = domain.Segment{
			ID:         fmt.Sprintf("%s-seg-%d", documentID, i),
			DocumentID: documentID,
			Position:   i,
			Text:       fmt.Sprintf("segment %d of %s", i, documentID),
		}
	}
	return out
}

func TestNew(t *testing.T) {
	t.Run("valid dimension", func(t *testing.T) {
		idx, err := New(3)
		require.NoError(t, err)
		assert.Equal(t, 3, idx.Dimensions())
		assert.Equal(t, 0, idx.Len())
	})

	t.Run("zero dimension", func(t *testing.T) {
		_, err := New(0)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("negative dimension", func(t *testing.T) {
		_, err := New(-5)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestIndex_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("adds all segments", func(t *testing.T) {
		idx, err := New(2)
		require.NoError(t, err)

		err = idx.Insert(ctx, "doc-a", segs("doc-a", 3), [][]float32{
			{1, 0}, {0, 1}, {1, 1},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, idx.Len())
	})

	t.Run("length mismatch", func(t *testing.T) {
		idx, err := New(2)
		require.NoError(t, err)

		err = idx.Insert(ctx, "doc-a", segs("doc-a", 2), [][]float32{{1, 0}})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.Equal(t, 0, idx.Len())
	})

	t.Run("dimension mismatch leaves index unchanged", func(t *testing.T) {
		idx, err := New(2)
		require.NoError(t, err)

		err = idx.Insert(ctx, "doc-a", segs("doc-a", 1), [][]float32{{1, 0}})
		require.NoError(t, err)

		// Second vector has the wrong dimension; the first must not land.
		err = idx.Insert(ctx, "doc-b", segs("doc-b", 2), [][]float32{
			{1, 0}, {1, 0, 0},
		})
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
		assert.Equal(t, 1, idx.Len())
	})
}

func TestIndex_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("empty index returns empty slice", func(t *testing.T) {
		idx, err := New(2)
		require.NoError(t, err)

		hits, err := idx.Search(ctx, []float32{1, 0}, 5)
		require.NoError(t, err)
		assert.NotNil(t, hits)
		assert.Empty(t, hits)
	})

	t.Run("invalid k", func(t *testing.T) {
		idx, err := New(2)
		require.NoError(t, err)

		_, err = idx.Search(ctx, []float32{1, 0}, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)

		_, err = idx.Search(ctx, []float32{1, 0}, -1)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("query dimension mismatch", func(t *testing.T) {
		idx, err := New(2)
		require.NoError(t, err)
		require.NoError(t, idx.Insert(ctx, "doc-a", segs("doc-a", 1), [][]float32{{1, 0}}))

		_, err = idx.Search(ctx, []float32{1, 0, 0}, 1)
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})

	t.Run("returns min(k, len) ordered by similarity", func(t *testing.T) {
		idx, err := New(2)
		require.NoError(t, err)

		// Three vectors at increasing angles from the query (1, 0).
		require.NoError(t, idx.Insert(ctx, "doc-a", segs("doc-a", 3), [][]float32{
			{0, 1},      // orthogonal
			{1, 0},      // identical
			{0.7, 0.7},  // diagonal
		}))

		hits, err := idx.Search(ctx, []float32{1, 0}, 5)
		require.NoError(t, err)
		require.Len(t, hits, 3)

		assert.Equal(t, "doc-a-seg-1", hits[0].Segment.ID)
		assert.Equal(t, "doc-a-seg-2", hits[1].Segment.ID)
		assert.Equal(t, "doc-a-seg-0", hits[2].Segment.ID)

		for i := 1; i < len(hits); i++ {
			assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
		}

		assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
		assert.InDelta(t, 0.0, hits[2].Score, 1e-9)
	})

	t.Run("k caps the result", func(t *testing.T) {
		idx, err := New(2)
		require.NoError(t, err)
		require.NoError(t, idx.Insert(ctx, "doc-a", segs("doc-a", 4), [][]float32{
			{1, 0}, {0, 1}, {1, 1}, {2, 0},
		}))

		hits, err := idx.Search(ctx, []float32{1, 0}, 2)
		require.NoError(t, err)
		assert.Len(t, hits, 2)
	})

	t.Run("equal scores keep insertion order", func(t *testing.T) {
		idx, err := New(2)
		require.NoError(t, err)

		// Same direction, different magnitudes: identical cosine scores.
		require.NoError(t, idx.Insert(ctx, "doc-a", segs("doc-a", 1), [][]float32{{1, 0}}))
		require.NoError(t, idx.Insert(ctx, "doc-b", segs("doc-b", 1), [][]float32{{2, 0}}))
		require.NoError(t, idx.Insert(ctx, "doc-c", segs("doc-c", 1), [][]float32{{3, 0}}))

		hits, err := idx.Search(ctx, []float32{1, 0}, 3)
		require.NoError(t, err)
		require.Len(t, hits, 3)
		assert.Equal(t, "doc-a-seg-0", hits[0].Segment.ID)
		assert.Equal(t, "doc-b-seg-0", hits[1].Segment.ID)
		assert.Equal(t, "doc-c-seg-0", hits[2].Segment.ID)
	})

	t.Run("zero query vector scores zero everywhere", func(t *testing.T) {
		idx, err := New(2)
		require.NoError(t, err)
		require.NoError(t, idx.Insert(ctx, "doc-a", segs("doc-a", 2), [][]float32{
			{1, 0}, {0, 1},
		}))

		hits, err := idx.Search(ctx, []float32{0, 0}, 2)
		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Zero(t, hits[0].Score)
		assert.Zero(t, hits[1].Score)
	})
}

func TestIndex_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes only the named document", func(t *testing.T) {
		idx, err := New(2)
		require.NoError(t, err)

		require.NoError(t, idx.Insert(ctx, "doc-a", segs("doc-a", 3), [][]float32{
			{1, 0}, {0, 1}, {1, 1},
		}))
		require.NoError(t, idx.Insert(ctx, "doc-b", segs("doc-b", 2), [][]float32{
			{1, 0}, {0, 1},
		}))
		require.Equal(t, 5, idx.Len())

		hits, err := idx.Search(ctx, []float32{1, 0}, 5)
		require.NoError(t, err)
		require.Len(t, hits, 5)

		removed, err := idx.Remove(ctx, "doc-a")
		require.NoError(t, err)
		assert.Equal(t, 3, removed)
		assert.Equal(t, 2, idx.Len())

		hits, err = idx.Search(ctx, []float32{1, 0}, 5)
		require.NoError(t, err)
		require.Len(t, hits, 2)
		for _, h := range hits {
			assert.Equal(t, "doc-b", h.Segment.DocumentID)
		}
	})

	t.Run("unknown document is a no-op", func(t *testing.T) {
		idx, err := New(2)
		require.NoError(t, err)
		require.NoError(t, idx.Insert(ctx, "doc-a", segs("doc-a", 1), [][]float32{{1, 0}}))

		removed, err := idx.Remove(ctx, "doc-x")
		require.NoError(t, err)
		assert.Equal(t, 0, removed)
		assert.Equal(t, 1, idx.Len())
	})

	t.Run("insert then remove restores prior results", func(t *testing.T) {
		idx, err := New(2)
		require.NoError(t, err)

		require.NoError(t, idx.Insert(ctx, "doc-a", segs("doc-a", 2), [][]float32{
			{1, 0}, {0.9, 0.1},
		}))

		before, err := idx.Search(ctx, []float32{1, 0}, 5)
		require.NoError(t, err)

		require.NoError(t, idx.Insert(ctx, "doc-b", segs("doc-b", 2), [][]float32{
			{1, 0.01}, {0.95, 0},
		}))
		_, err = idx.Remove(ctx, "doc-b")
		require.NoError(t, err)

		after, err := idx.Search(ctx, []float32{1, 0}, 5)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestIndex_ErrorsUnwrap(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)

	insErr := idx.Insert(context.Background(), "doc-a", segs("doc-a", 1), [][]float32{{1}})
	require.Error(t, insErr)
	assert.True(t, errors.Is(insErr, domain.ErrDimensionMismatch))
}
