package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
	"github.com/docuverse/docuverse/internal/core/ports/driving"
	"github.com/docuverse/docuverse/internal/logger"
)

// Ensure ConversationManager implements the interface.
var _ driving.ConversationService = (*ConversationManager)(nil)

// ConversationManager manages conversation lifecycle and the ask loop.
// It ties the store, the indexer and the query engine together so a
// deleted conversation takes its index, its cached answers and its
// uploaded files with it.
type ConversationManager struct {
	store   driven.ConversationStore
	indexer driving.Indexer
	query   driving.Query
}

// NewConversationManager creates a new conversation manager.
func NewConversationManager(
	store driven.ConversationStore,
	indexer driving.Indexer,
	query driving.Query,
) *ConversationManager {
	return &ConversationManager{
		store:   store,
		indexer: indexer,
		query:   query,
	}
}

// New creates a conversation. The name defaults to a timestamped one
// when blank.
func (c *ConversationManager) New(ctx context.Context, name string) (*domain.Conversation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Conversation " + time.Now().Format("2006-01-02 15:04")
	}

	conv, err := c.store.CreateConversation(ctx, name)
	if err != nil {
		return nil, err
	}

	logger.Info("Created conversation %s (%q)", conv.SessionID, conv.Name)
	return conv, nil
}

// Get returns a conversation by session ID.
func (c *ConversationManager) Get(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	return c.store.GetConversation(ctx, sessionID)
}

// List returns all conversations, most recently updated first.
func (c *ConversationManager) List(ctx context.Context) ([]domain.Conversation, error) {
	return c.store.ListConversations(ctx)
}

// Rename changes a conversation's display name.
func (c *ConversationManager) Rename(ctx context.Context, sessionID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty name", domain.ErrInvalidArgument)
	}
	return c.store.RenameConversation(ctx, sessionID, name)
}

// Delete removes a conversation and everything attached to it: stored
// messages and file records, uploaded files on disk, the session's
// vector index and any cached answers.
func (c *ConversationManager) Delete(ctx context.Context, sessionID string) error {
	docs, err := c.store.Files(ctx, sessionID)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("listing session files: %w", err)
	}

	if err := c.store.DeleteConversation(ctx, sessionID); err != nil {
		return err
	}

	// Stored records are gone; disk cleanup failures are logged, not
	// fatal.
	for _, doc := range docs {
		if doc.Path == "" {
			continue
		}
		if err := os.Remove(doc.Path); err != nil && !os.IsNotExist(err) {
			logger.Warn("Could not remove %s: %v", doc.Path, err)
		}
	}

	c.indexer.DropSession(sessionID)
	c.query.Invalidate(sessionID)

	logger.Info("Deleted conversation %s", sessionID)
	return nil
}

// Ask answers a question within a conversation. The exchange is
// recorded only when generation succeeds, so a failed question can be
// retried without polluting the history.
func (c *ConversationManager) Ask(ctx context.Context, sessionID, question string) (*domain.Answer, error) {
	if _, err := c.store.GetConversation(ctx, sessionID); err != nil {
		return nil, err
	}

	// History is captured before the new question is recorded.
	history, err := c.store.Messages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	answer, err := c.query.Answer(ctx, sessionID, question, history)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	userMsg := domain.Message{
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Content:   strings.TrimSpace(question),
		Timestamp: now,
	}
	assistantMsg := domain.Message{
		SessionID: sessionID,
		Role:      domain.RoleAssistant,
		Content:   answer.Text,
		Timestamp: now,
	}

	if err := c.store.AddMessage(ctx, userMsg); err != nil {
		return answer, fmt.Errorf("recording question: %w", err)
	}
	if err := c.store.AddMessage(ctx, assistantMsg); err != nil {
		return answer, fmt.Errorf("recording answer: %w", err)
	}

	return answer, nil
}

// History returns a conversation's messages in chronological order.
func (c *ConversationManager) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	if _, err := c.store.GetConversation(ctx, sessionID); err != nil {
		return nil, err
	}
	return c.store.Messages(ctx, sessionID)
}

// Files returns a conversation's uploaded documents in upload order.
func (c *ConversationManager) Files(ctx context.Context, sessionID string) ([]domain.Document, error) {
	if _, err := c.store.GetConversation(ctx, sessionID); err != nil {
		return nil, err
	}
	return c.store.Files(ctx, sessionID)
}
