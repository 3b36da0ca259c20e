// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/docuverse/docuverse/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewConversations is the conversation picker.
	ViewConversations ViewType = iota
	// ViewChat is the question-and-answer view for one conversation.
	ViewChat
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewConversations:
		return "conversations"
	case ViewChat:
		return "chat"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ConversationsLoaded carries the conversation list from the service.
type ConversationsLoaded struct {
	Conversations []domain.Conversation
	Err           error
}

// ConversationCreated signals that a new conversation was started.
type ConversationCreated struct {
	Conversation *domain.Conversation
	Err          error
}

// ConversationSelected signals that a conversation was opened for chat.
type ConversationSelected struct {
	Conversation domain.Conversation
}

// HistoryLoaded carries a conversation's past messages.
type HistoryLoaded struct {
	SessionID string
	Messages  []domain.Message
	Err       error
}

// AnswerReceived carries the reply to a submitted question.
type AnswerReceived struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
