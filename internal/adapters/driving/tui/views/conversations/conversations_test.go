package conversations

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuverse/docuverse/internal/adapters/driving/tui/messages"
	"github.com/docuverse/docuverse/internal/core/domain"
)

type stubService struct {
	conversations []domain.Conversation
	err           error
}

func (s *stubService) New(_ context.Context, name string) (*domain.Conversation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Conversation{SessionID: "session-new", Name: name}, nil
}

func (s *stubService) Get(_ context.Context, _ string) (*domain.Conversation, error) {
	return nil, s.err
}

func (s *stubService) List(_ context.Context) ([]domain.Conversation, error) {
	return s.conversations, s.err
}

func (s *stubService) Rename(_ context.Context, _, _ string) error { return s.err }
func (s *stubService) Delete(_ context.Context, _ string) error    { return s.err }

func (s *stubService) Ask(_ context.Context, _, _ string) (*domain.Answer, error) {
	return nil, s.err
}

func (s *stubService) History(_ context.Context, _ string) ([]domain.Message, error) {
	return nil, s.err
}

func (s *stubService) Files(_ context.Context, _ string) ([]domain.Document, error) {
	return nil, s.err
}

func newTestView(convs ...domain.Conversation) *View {
	v := NewView(nil, nil, &stubService{conversations: convs})
	v.SetDimensions(80, 24)
	return v
}

func TestView_LoadsConversations(t *testing.T) {
	v := newTestView(
		domain.Conversation{SessionID: "session-1", Name: "First"},
		domain.Conversation{SessionID: "session-2", Name: "Second"},
	)

	cmd := v.Init()
	require.NotNil(t, cmd)

	msg := cmd()
	loaded, ok := msg.(messages.ConversationsLoaded)
	require.True(t, ok)
	assert.Len(t, loaded.Conversations, 2)

	v, _ = v.Update(loaded)
	assert.Len(t, v.Conversations(), 2)
	assert.Contains(t, v.View(), "First")
	assert.Contains(t, v.View(), "Second")
}

func TestView_Navigation(t *testing.T) {
	v := newTestView()

	loaded := []domain.Conversation{
		{SessionID: "session-1", Name: "First"},
		{SessionID: "session-2", Name: "Second"},
	}
	v, _ = v.Update(messages.ConversationsLoaded{Conversations: loaded})

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, v.Selected())

	// Cannot move past the end.
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, v.Selected())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, v.Selected())
}

func TestView_SelectEmitsConversationSelected(t *testing.T) {
	conv := domain.Conversation{SessionID: "session-2", Name: "Second"}
	v := newTestView()
	v, _ = v.Update(messages.ConversationsLoaded{Conversations: []domain.Conversation{
		{SessionID: "session-1", Name: "First"},
		conv,
	}})
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	selected, ok := cmd().(messages.ConversationSelected)
	require.True(t, ok)
	assert.Equal(t, "session-2", selected.Conversation.SessionID)
}

func TestView_SelectOnEmptyListIsNoop(t *testing.T) {
	v := newTestView()
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, v.View(), "No conversations yet")
}

func TestView_NewConversation(t *testing.T) {
	v := newTestView()

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	require.NotNil(t, cmd)

	created, ok := cmd().(messages.ConversationCreated)
	require.True(t, ok)
	require.NoError(t, created.Err)

	// The fresh conversation opens immediately.
	v, cmd = v.Update(created)
	require.NotNil(t, cmd)
	selected, ok := cmd().(messages.ConversationSelected)
	require.True(t, ok)
	assert.Equal(t, "session-new", selected.Conversation.SessionID)
}

func TestView_ShowsLoadError(t *testing.T) {
	v := newTestView()
	v, _ = v.Update(messages.ConversationsLoaded{Err: errors.New("store unavailable")})

	assert.Error(t, v.Err())
	assert.Contains(t, v.View(), "store unavailable")
}
