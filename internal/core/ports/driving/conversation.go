package driving

import (
	"context"

	"github.com/docuverse/docuverse/internal/core/domain"
)

// ConversationService manages chat sessions and their history.
type ConversationService interface {
	// New starts a conversation and returns it.
	New(ctx context.Context, name string) (*domain.Conversation, error)

	// Get retrieves a conversation by session ID.
	Get(ctx context.Context, sessionID string) (*domain.Conversation, error)

	// List returns all conversations.
	List(ctx context.Context) ([]domain.Conversation, error)

	// Rename updates a conversation's name.
	Rename(ctx context.Context, sessionID, name string) error

	// Delete removes a conversation, its messages, its file records
	// and its index.
	Delete(ctx context.Context, sessionID string) error

	// Ask records the question, answers it against the session's
	// documents and records the reply.
	Ask(ctx context.Context, sessionID, question string) (*domain.Answer, error)

	// History returns a conversation's messages in order.
	History(ctx context.Context, sessionID string) ([]domain.Message, error)

	// Files returns a conversation's uploaded documents.
	Files(ctx context.Context, sessionID string) ([]domain.Document, error)
}
