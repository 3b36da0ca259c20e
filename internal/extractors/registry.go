package extractors

import (
	"context"
	"fmt"
	"sort"

	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps formats to their extractors. Registration happens at
// startup; lookups are read-only afterwards, so no locking is needed.
type Registry struct {
	byFormat map[domain.Format]driven.Extractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		byFormat: make(map[domain.Format]driven.Extractor),
	}
}

// Register adds an extractor for every format it reports.
// A later registration for the same format wins.
func (r *Registry) Register(e driven.Extractor) {
	for _, f := range e.Formats() {
		r.byFormat[f] = e
	}
}

// Extract dispatches to the extractor registered for the file's format.
func (r *Registry) Extract(ctx context.Context, raw *domain.RawFile) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidArgument
	}

	e, ok := r.byFormat[raw.Format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, raw.Format)
	}
	return e.Extract(ctx, raw)
}

// SupportedFormats returns all registered formats, sorted.
func (r *Registry) SupportedFormats() []domain.Format {
	formats := make([]domain.Format, 0, len(r.byFormat))
	for f := range r.byFormat {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
