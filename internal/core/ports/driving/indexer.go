package driving

import (
	"context"

	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
)

// Indexer owns the per-session index lifecycle: extraction, segmenting,
// embedding and insertion for uploaded documents.
type Indexer interface {
	// AddDocuments runs the indexing pipeline for a batch of files.
	// A file that fails extraction or embedding is reported in the
	// result and does not abort the batch or roll back earlier files.
	AddDocuments(ctx context.Context, sessionID string, files []domain.RawFile) (*domain.BatchResult, error)

	// RemoveDocument evicts all of a document's segments and vectors
	// from the session's index. Removing an absent document is a no-op.
	RemoveDocument(ctx context.Context, sessionID, documentID string) error

	// Index returns the session's vector index, lazily creating an
	// empty one on first access. Exactly one instance is held per
	// live session.
	Index(sessionID string) driven.VectorIndex

	// Table returns the structured tabular extraction for a document,
	// or domain.ErrNotFound when the document has none.
	Table(sessionID, documentID string) (*domain.Table, error)

	// Rebuild reconstructs the session's index from the stored file
	// records. Used on session start since vectors are not persisted.
	Rebuild(ctx context.Context, sessionID string) (*domain.BatchResult, error)

	// DropSession tears down the session's index and cached state.
	DropSession(sessionID string)
}
