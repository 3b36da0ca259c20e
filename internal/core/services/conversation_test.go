package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuverse/docuverse/internal/core/domain"
)

func newTestConversations(llm *fakeLLM) (*ConversationManager, *IndexManager) {
	store, indexer, query := newTestStack(llm)
	return NewConversationManager(store, indexer, query), indexer
}

func TestConversationManager_New(t *testing.T) {
	manager, _ := newTestConversations(&fakeLLM{})
	ctx := context.Background()

	conv, err := manager.New(ctx, "project research")
	require.NoError(t, err)
	assert.NotEmpty(t, conv.SessionID)
	assert.Equal(t, "project research", conv.Name)

	got, err := manager.Get(ctx, conv.SessionID)
	require.NoError(t, err)
	assert.Equal(t, conv.SessionID, got.SessionID)
}

func TestConversationManager_New_DefaultName(t *testing.T) {
	manager, _ := newTestConversations(&fakeLLM{})

	conv, err := manager.New(context.Background(), "   ")
	require.NoError(t, err)
	assert.NotEmpty(t, conv.Name)
}

func TestConversationManager_Rename(t *testing.T) {
	manager, _ := newTestConversations(&fakeLLM{})
	ctx := context.Background()

	conv, err := manager.New(ctx, "old name")
	require.NoError(t, err)

	require.NoError(t, manager.Rename(ctx, conv.SessionID, "new name"))
	got, err := manager.Get(ctx, conv.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "new name", got.Name)

	assert.ErrorIs(t, manager.Rename(ctx, conv.SessionID, "  "), domain.ErrInvalidArgument)
	assert.ErrorIs(t, manager.Rename(ctx, "missing", "name"), domain.ErrNotFound)
}

func TestConversationManager_Ask(t *testing.T) {
	llm := &fakeLLM{reply: "The answer."}
	manager, _ := newTestConversations(llm)
	ctx := context.Background()

	conv, err := manager.New(ctx, "test")
	require.NoError(t, err)

	answer, err := manager.Ask(ctx, conv.SessionID, "A question?")
	require.NoError(t, err)
	assert.Equal(t, "The answer.", answer.Text)

	history, err := manager.History(ctx, conv.SessionID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "A question?", history[0].Content)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)
	assert.Equal(t, "The answer.", history[1].Content)
}

func TestConversationManager_Ask_MissingConversation(t *testing.T) {
	llm := &fakeLLM{reply: "unused"}
	manager, _ := newTestConversations(llm)

	_, err := manager.Ask(context.Background(), "missing", "A question?")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, llm.calls)
}

func TestConversationManager_Ask_FailureRecordsNothing(t *testing.T) {
	llm := &fakeLLM{err: errors.New("model down")}
	manager, _ := newTestConversations(llm)
	ctx := context.Background()

	conv, err := manager.New(ctx, "test")
	require.NoError(t, err)

	_, err = manager.Ask(ctx, conv.SessionID, "A question?")
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)

	history, err := manager.History(ctx, conv.SessionID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestConversationManager_Ask_HistoryFlowsToLLM(t *testing.T) {
	llm := &fakeLLM{reply: "reply"}
	manager, _ := newTestConversations(llm)
	ctx := context.Background()

	conv, err := manager.New(ctx, "test")
	require.NoError(t, err)

	_, err = manager.Ask(ctx, conv.SessionID, "First question?")
	require.NoError(t, err)

	_, err = manager.Ask(ctx, conv.SessionID, "Second question?")
	require.NoError(t, err)

	// System prompt, the recorded first exchange, the new question.
	require.Len(t, llm.messages, 4)
	assert.Equal(t, "First question?", llm.messages[1].Content)
	assert.Equal(t, "reply", llm.messages[2].Content)
	assert.Equal(t, "Second question?", llm.messages[3].Content)
}

func TestConversationManager_Delete(t *testing.T) {
	llm := &fakeLLM{reply: "reply"}
	store, indexer, query := newTestStack(llm)
	manager := NewConversationManager(store, indexer, query)
	ctx := context.Background()

	conv, err := manager.New(ctx, "test")
	require.NoError(t, err)

	// Upload a file through the store and index it, with a real file on
	// disk to verify cleanup.
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))
	require.NoError(t, store.AddFile(ctx, &domain.Document{
		ID: "doc-1", SessionID: conv.SessionID, Filename: "notes.txt",
		Path: path, Format: domain.FormatText,
	}))
	_, err = indexer.AddDocuments(ctx, conv.SessionID, []domain.RawFile{
		{SessionID: conv.SessionID, Filename: "notes.txt", Format: domain.FormatText,
			Content: []byte("content")},
	})
	require.NoError(t, err)

	require.NoError(t, manager.Delete(ctx, conv.SessionID))

	_, err = manager.Get(ctx, conv.SessionID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoFileExists(t, path)
	assert.Equal(t, 0, indexer.Index(conv.SessionID).Len())
}

func TestConversationManager_Delete_Missing(t *testing.T) {
	manager, _ := newTestConversations(&fakeLLM{})

	err := manager.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConversationManager_List(t *testing.T) {
	manager, _ := newTestConversations(&fakeLLM{})
	ctx := context.Background()

	_, err := manager.New(ctx, "first")
	require.NoError(t, err)
	_, err = manager.New(ctx, "second")
	require.NoError(t, err)

	convs, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Len(t, convs, 2)
}

func TestConversationManager_History_MissingConversation(t *testing.T) {
	manager, _ := newTestConversations(&fakeLLM{})

	_, err := manager.History(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
