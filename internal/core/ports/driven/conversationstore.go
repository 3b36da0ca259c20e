package driven

import (
	"context"

	"github.com/docuverse/docuverse/internal/core/domain"
)

// ConversationStore persists conversations, their chat messages and
// their uploaded-file records. Vectors and segments are NOT persisted:
// the index is rebuilt from file records on session start.
type ConversationStore interface {
	// CreateConversation starts a new conversation and returns it
	// with a fresh session identifier.
	CreateConversation(ctx context.Context, name string) (*domain.Conversation, error)

	// GetConversation retrieves a conversation by session ID.
	GetConversation(ctx context.Context, sessionID string) (*domain.Conversation, error)

	// ListConversations returns all conversations, most recently
	// updated first.
	ListConversations(ctx context.Context) ([]domain.Conversation, error)

	// RenameConversation updates a conversation's name.
	RenameConversation(ctx context.Context, sessionID, name string) error

	// DeleteConversation removes a conversation, cascading to its
	// messages and file records.
	DeleteConversation(ctx context.Context, sessionID string) error

	// AddMessage appends a chat message to a conversation.
	AddMessage(ctx context.Context, msg domain.Message) error

	// Messages returns a conversation's messages in chronological order.
	Messages(ctx context.Context, sessionID string) ([]domain.Message, error)

	// AddFile records an uploaded document. Fails with
	// domain.ErrAlreadyExists when the session already has a file
	// with the same name.
	AddFile(ctx context.Context, doc *domain.Document) error

	// Files returns a conversation's uploaded documents in upload order.
	Files(ctx context.Context, sessionID string) ([]domain.Document, error)

	// RemoveFile deletes one uploaded-file record.
	RemoveFile(ctx context.Context, sessionID, documentID string) error

	// Close releases resources.
	Close() error
}
