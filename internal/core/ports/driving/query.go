package driving

import (
	"context"

	"github.com/docuverse/docuverse/internal/core/domain"
)

// Query answers questions against a conversation's indexed documents.
type Query interface {
	// Answer encodes the question, retrieves the top-k most relevant
	// segments from the session's index, and generates an answer via
	// the LLM. When the index is empty, retrieval is skipped and the
	// returned Answer has UsedContext set to false.
	// An empty question fails with domain.ErrInvalidArgument; an LLM
	// failure is reported as domain.ErrGenerationFailed.
	Answer(ctx context.Context, sessionID, question string, history []domain.Message) (*domain.Answer, error)

	// Invalidate drops cached answers for a session. Called when the
	// session's document set changes.
	Invalidate(sessionID string)
}
