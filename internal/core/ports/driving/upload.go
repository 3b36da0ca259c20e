package driving

import (
	"context"

	"github.com/docuverse/docuverse/internal/core/domain"
)

// Uploader is the upload boundary: it accepts raw file bytes, records
// the document and triggers indexing.
type Uploader interface {
	// Upload stores one file for a session and indexes it.
	// Fails with domain.ErrTooLarge when the file exceeds the size
	// cap and domain.ErrUnsupportedFormat when the format cannot be
	// determined.
	Upload(ctx context.Context, sessionID, filename string, content []byte) (*domain.Document, error)

	// UploadBatch stores and indexes several files; per-file failures
	// are reported in the result, not returned as an error.
	UploadBatch(ctx context.Context, sessionID string, files []domain.RawFile) (*domain.BatchResult, error)

	// Remove deletes a document's file record and evicts it from the
	// session's index.
	Remove(ctx context.Context, sessionID, documentID string) error
}
