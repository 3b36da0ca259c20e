package tui

import (
	"context"

	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
)

// mockConversationService is a mock implementation of
// driving.ConversationService.
type mockConversationService struct {
	conversations []domain.Conversation
	answer        *domain.Answer
	messages      []domain.Message
	documents     []domain.Document
	err           error
}

func (m *mockConversationService) New(_ context.Context, name string) (*domain.Conversation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Conversation{SessionID: "session-1", Name: name}, nil
}

func (m *mockConversationService) Get(_ context.Context, _ string) (*domain.Conversation, error) {
	return nil, m.err
}

func (m *mockConversationService) List(_ context.Context) ([]domain.Conversation, error) {
	return m.conversations, m.err
}

func (m *mockConversationService) Rename(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockConversationService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockConversationService) Ask(_ context.Context, _, _ string) (*domain.Answer, error) {
	return m.answer, m.err
}

func (m *mockConversationService) History(_ context.Context, _ string) ([]domain.Message, error) {
	return m.messages, m.err
}

func (m *mockConversationService) Files(_ context.Context, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

// mockIndexer is a mock implementation of driving.Indexer.
type mockIndexer struct {
	rebuilt []string
}

func (m *mockIndexer) AddDocuments(_ context.Context, _ string, _ []domain.RawFile) (*domain.BatchResult, error) {
	return &domain.BatchResult{}, nil
}

func (m *mockIndexer) RemoveDocument(_ context.Context, _, _ string) error {
	return nil
}

func (m *mockIndexer) Index(_ string) driven.VectorIndex {
	return nil
}

func (m *mockIndexer) Table(_, _ string) (*domain.Table, error) {
	return nil, domain.ErrNotFound
}

func (m *mockIndexer) Rebuild(_ context.Context, sessionID string) (*domain.BatchResult, error) {
	m.rebuilt = append(m.rebuilt, sessionID)
	return &domain.BatchResult{}, nil
}

func (m *mockIndexer) DropSession(_ string) {}
