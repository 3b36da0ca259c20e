package plaintext

import (
	"bytes"
	"context"
	"strings"

	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// utf8BOM is stripped from the start of the content if present.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor handles plain text files (txt, markdown, logs).
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Formats returns the formats this extractor handles.
func (e *Extractor) Formats() []domain.Format {
	return []domain.Format{domain.FormatText}
}

// Extract returns the file content as text with normalised line endings.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawFile) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidArgument
	}

	content := bytes.TrimPrefix(raw.Content, utf8BOM)
	text := strings.ReplaceAll(string(content), "\r\n", "\n")

	return &driven.ExtractResult{
		Text: strings.TrimSpace(text),
	}, nil
}
