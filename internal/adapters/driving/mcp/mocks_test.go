package mcp

import (
	"context"

	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
)

// mockConversationService is a mock implementation of
// driving.ConversationService.
type mockConversationService struct {
	conversation  *domain.Conversation
	conversations []domain.Conversation
	answer        *domain.Answer
	messages      []domain.Message
	documents     []domain.Document
	err           error

	asked []string
}

func (m *mockConversationService) New(_ context.Context, name string) (*domain.Conversation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Conversation{SessionID: "session-1", Name: name}, nil
}

func (m *mockConversationService) Get(_ context.Context, _ string) (*domain.Conversation, error) {
	return m.conversation, m.err
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

func (m *mockConversationService) Ask(_ context.Context, _, question string) (*domain.Answer, error) {
	m.asked = append(m.asked, question)
	return m.answer, m.err
}

func (m *mockConversationService) History(_ context.Context, _ string) ([]domain.Message, error) {
	return m.messages, m.err
}

func (m *mockConversationService) Files(_ context.Context, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

// mockUploader is a mock implementation of driving.Uploader.
type mockUploader struct {
	document *domain.Document
	err      error

	uploaded []domain.RawFile
}

func (m *mockUploader) Upload(_ context.Context, sessionID, filename string, content []byte) (*domain.Document, error) {
	m.uploaded = append(m.uploaded, domain.RawFile{
		SessionID: sessionID,
		Filename:  filename,
		Content:   content,
	})
	return m.document, m.err
}

func (m *mockUploader) UploadBatch(_ context.Context, _ string, _ []domain.RawFile) (*domain.BatchResult, error) {
	return &domain.BatchResult{}, m.err
}

func (m *mockUploader) Remove(_ context.Context, _, _ string) error {
	return m.err
}

// mockIndexer is a mock implementation of driving.Indexer. It records
// rebuild calls.
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
