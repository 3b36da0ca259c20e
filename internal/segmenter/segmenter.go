// Package segmenter provides fixed-size text segmenting with overlap.
package segmenter

import (
	"github.com/google/uuid"

	"github.com/docuverse/docuverse/internal/core/domain"
)

// DefaultSegmentSize is the default number of runes per segment,
// sized to fit the embedding model's input window.
const DefaultSegmentSize = 1000

// DefaultOverlap is the default number of overlapping runes, kept to
// preserve context across segment boundaries.
const DefaultOverlap = 200

// Segmenter splits extracted text into fixed-size segments.
type Segmenter struct {
	size    int
	overlap int
}

// Option configures the segmenter.
type Option func(*Segmenter)

// WithSegmentSize sets the segment size in runes.
func WithSegmentSize(size int) Option {
	return func(s *Segmenter) {
		if size > 0 {
			s.size = size
		}
	}
}

// WithOverlap sets the overlap between segments in runes.
func WithOverlap(overlap int) Option {
	return func(s *Segmenter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a new segmenter with the given options.
func New(opts ...Option) *Segmenter {
	s := &Segmenter{
		size:    DefaultSegmentSize,
		overlap: DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed segment size
	if s.overlap >= s.size {
		s.overlap = s.size / 4
	}

	return s
}

// Size returns the configured segment size in runes.
func (s *Segmenter) Size() int { return s.size }

// Overlap returns the configured overlap in runes.
func (s *Segmenter) Overlap() int { return s.overlap }

// Segment splits text into segments for the given document.
// Offsets are rune offsets into text; concatenating segments in
// Position order, dropping the first Overlap runes of every segment
// after the first, reconstructs text exactly.
func (s *Segmenter) Segment(documentID, text string) []domain.Segment {
	if text == "" {
		// Empty content produces no segments
		return nil
	}

	runes := []rune(text)
	total := len(runes)
	step := s.size - s.overlap

	segments := make([]domain.Segment, 0, total/step+1)

	position := 0
	start := 0

	for start < total {
		end := start + s.size
		if end > total {
			end = total
		}

		segments = append(segments, domain.Segment{
			ID:         uuid.New().String(),
			DocumentID: documentID,
			Position:   position,
			Text:       string(runes[start:end]),
			Start:      start,
			End:        end,
		})
		position++

		if end == total {
			break
		}
		start += step
	}

	return segments
}

// Reconstruct joins segments in position order back into the original
// text, dropping the overlap region of every segment after the first.
// Segments must come from a single Segment call, in order.
func (s *Segmenter) Reconstruct(segments []domain.Segment) string {
	if len(segments) == 0 {
		return ""
	}

	// Every segment after the first starts overlap runes before the
	// previous segment's end, so dropping its first overlap runes
	// yields the uncovered remainder.
	out := []rune(segments[0].Text)
	for _, seg := range segments[1:] {
		runes := []rune(seg.Text)
		out = append(out, runes[s.overlap:]...)
	}
	return string(out)
}
