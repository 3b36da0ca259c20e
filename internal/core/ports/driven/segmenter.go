package driven

import "github.com/docuverse/docuverse/internal/core/domain"

// Segmenter splits extracted text into ordered, overlapping segments
// ready for embedding. An empty text produces no segments.
type Segmenter interface {
	Segment(documentID, text string) []domain.Segment
}
