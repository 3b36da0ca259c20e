package domain

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation groups a chat session with its uploaded documents.
// The session identifier scopes the vector index: queries in one
// conversation never retrieve passages from another's documents.
type Conversation struct {
	// SessionID is the unique identifier for the conversation.
	SessionID string

	// Name is the human-readable title.
	Name string

	// CreatedAt is when the conversation was started.
	CreatedAt time.Time

	// UpdatedAt is when the conversation was last modified.
	UpdatedAt time.Time
}

// Message is a single chat turn within a conversation.
type Message struct {
	// SessionID links to the owning conversation.
	SessionID string

	// Role is RoleUser or RoleAssistant.
	Role string

	// Content is the message text.
	Content string

	// Timestamp is when the message was recorded.
	Timestamp time.Time
}
