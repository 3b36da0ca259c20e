// Package memory provides in-memory implementations of driven port
// interfaces, used in tests and for throwaway sessions.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore is an in-memory implementation of
// driven.ConversationStore. Nothing survives process exit.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]domain.Conversation
	messages      map[string][]domain.Message
	files         map[string][]domain.Document
}

// NewConversationStore creates a new in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		conversations: make(map[string]domain.Conversation),
		messages:      make(map[string][]domain.Message),
		files:         make(map[string][]domain.Document),
	}
}

// CreateConversation starts a new conversation with a fresh session ID.
func (s *ConversationStore) CreateConversation(_ context.Context, name string) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	conv := domain.Conversation{
		SessionID: uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.conversations[conv.SessionID] = conv
	return &conv, nil
}

// GetConversation retrieves a conversation by session ID.
func (s *ConversationStore) GetConversation(_ context.Context, sessionID string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &conv, nil
}

// ListConversations returns all conversations, most recently updated
// first.
func (s *ConversationStore) ListConversations(_ context.Context) ([]domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]domain.Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		list = append(list, conv)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})
	return list, nil
}

// RenameConversation updates a conversation's name.
func (s *ConversationStore) RenameConversation(_ context.Context, sessionID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[sessionID]
	if !ok {
		return domain.ErrNotFound
	}
	conv.Name = name
	conv.UpdatedAt = time.Now().UTC()
	s.conversations[sessionID] = conv
	return nil
}

// DeleteConversation removes a conversation with its messages and
// file records.
func (s *ConversationStore) DeleteConversation(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[sessionID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.conversations, sessionID)
	delete(s.messages, sessionID)
	delete(s.files, sessionID)
	return nil
}

// AddMessage appends a chat message to a conversation.
func (s *ConversationStore) AddMessage(_ context.Context, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[msg.SessionID]
	if !ok {
		return fmt.Errorf("%w: conversation %s", domain.ErrNotFound, msg.SessionID)
	}

	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	s.messages[msg.SessionID] = append(s.messages[msg.SessionID], msg)

	conv.UpdatedAt = time.Now().UTC()
	s.conversations[msg.SessionID] = conv
	return nil
}

// Messages returns a conversation's messages in chronological order.
func (s *ConversationStore) Messages(_ context.Context, sessionID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[sessionID]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// AddFile records an uploaded document.
func (s *ConversationStore) AddFile(_ context.Context, doc *domain.Document) error {
	if doc == nil {
		return domain.ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[doc.SessionID]
	if !ok {
		return fmt.Errorf("%w: conversation %s", domain.ErrNotFound, doc.SessionID)
	}

	for _, existing := range s.files[doc.SessionID] {
		if existing.Filename == doc.Filename {
			return fmt.Errorf("%w: file %q in session %s",
				domain.ErrAlreadyExists, doc.Filename, doc.SessionID)
		}
	}

	stored := *doc
	if stored.UploadedAt.IsZero() {
		stored.UploadedAt = time.Now().UTC()
	}
	s.files[doc.SessionID] = append(s.files[doc.SessionID], stored)

	conv.UpdatedAt = time.Now().UTC()
	s.conversations[doc.SessionID] = conv
	return nil
}

// Files returns a conversation's uploaded documents in upload order.
func (s *ConversationStore) Files(_ context.Context, sessionID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := s.files[sessionID]
	out := make([]domain.Document, len(files))
	copy(out, files)
	return out, nil
}

// RemoveFile deletes one uploaded-file record.
func (s *ConversationStore) RemoveFile(_ context.Context, sessionID, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := s.files[sessionID]
	for i, doc := range files {
		if doc.ID == documentID {
			s.files[sessionID] = append(files[:i], files[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// Close releases resources.
func (s *ConversationStore) Close() error {
	return nil
}
