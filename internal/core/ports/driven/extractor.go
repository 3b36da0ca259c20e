package driven

import (
	"context"

	"github.com/docuverse/docuverse/internal/core/domain"
)

// Extractor converts an uploaded file into plain text.
// Each extractor handles specific format tags (e.g., PDF, CSV).
type Extractor interface {
	// Formats returns the format tags this extractor handles.
	Formats() []domain.Format

	// Extract decodes the raw file into flattened text, plus a
	// structured table for tabular formats.
	// Fails with domain.ErrCorruptDocument when the content cannot
	// be decoded.
	Extract(ctx context.Context, raw *domain.RawFile) (*ExtractResult, error)
}

// ExtractResult contains the output of extraction.
type ExtractResult struct {
	// Text is the flattened text used for segmenting and indexing.
	Text string

	// Table is the structured form of a tabular extraction, nil for
	// non-tabular formats. It feeds the visualization boundary.
	Table *domain.Table
}

// ExtractorRegistry dispatches a raw file to the extractor registered
// for its format tag.
type ExtractorRegistry interface {
	// Extract runs the extractor matching the file's format tag.
	// Fails with domain.ErrUnsupportedFormat when no extractor is
	// registered for the tag.
	Extract(ctx context.Context, raw *domain.RawFile) (*ExtractResult, error)

	// Register adds an extractor to the registry.
	Register(extractor Extractor)

	// SupportedFormats returns all format tags that can be extracted.
	SupportedFormats() []domain.Format
}
