package chat

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuverse/docuverse/internal/adapters/driving/tui/messages"
	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
	"github.com/docuverse/docuverse/internal/core/ports/driving"
)

type stubService struct {
	answer   *domain.Answer
	messages []domain.Message
	err      error

	asked []string
}

func (s *stubService) New(_ context.Context, name string) (*domain.Conversation, error) {
	return &domain.Conversation{SessionID: "session-1", Name: name}, s.err
}

func (s *stubService) Get(_ context.Context, _ string) (*domain.Conversation, error) {
	return nil, s.err
}

func (s *stubService) List(_ context.Context) ([]domain.Conversation, error) {
	return nil, s.err
}

func (s *stubService) Rename(_ context.Context, _, _ string) error { return s.err }
func (s *stubService) Delete(_ context.Context, _ string) error    { return s.err }

func (s *stubService) Ask(_ context.Context, _, question string) (*domain.Answer, error) {
	s.asked = append(s.asked, question)
	return s.answer, s.err
}

func (s *stubService) History(_ context.Context, _ string) ([]domain.Message, error) {
	return s.messages, s.err
}

func (s *stubService) Files(_ context.Context, _ string) ([]domain.Document, error) {
	return nil, s.err
}

type stubIndexer struct {
	rebuilt []string
}

func (s *stubIndexer) AddDocuments(_ context.Context, _ string, _ []domain.RawFile) (*domain.BatchResult, error) {
	return &domain.BatchResult{}, nil
}

func (s *stubIndexer) RemoveDocument(_ context.Context, _, _ string) error { return nil }
func (s *stubIndexer) Index(_ string) driven.VectorIndex                   { return nil }

func (s *stubIndexer) Table(_, _ string) (*domain.Table, error) {
	return nil, domain.ErrNotFound
}

func (s *stubIndexer) Rebuild(_ context.Context, sessionID string) (*domain.BatchResult, error) {
	s.rebuilt = append(s.rebuilt, sessionID)
	return &domain.BatchResult{}, nil
}

func (s *stubIndexer) DropSession(_ string) {}

func newTestView(service *stubService, indexer driving.Indexer) *View {
	v := NewView(nil, nil, service, indexer)
	v.SetDimensions(80, 24)
	return v
}

func drain(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}

	var msgs []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg != nil {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func TestView_SetConversationRebuildsAndLoadsHistory(t *testing.T) {
	service := &stubService{
		messages: []domain.Message{
			{Role: domain.RoleUser, Content: "What is in the report?"},
			{Role: domain.RoleAssistant, Content: "Quarterly figures."},
		},
	}
	indexer := &stubIndexer{}
	v := newTestView(service, indexer)

	cmd := v.SetConversation(domain.Conversation{SessionID: "session-1", Name: "Q3"})
	msgs := drain(t, cmd)

	assert.Equal(t, []string{"session-1"}, indexer.rebuilt)

	var history messages.HistoryLoaded
	for _, msg := range msgs {
		if h, ok := msg.(messages.HistoryLoaded); ok {
			history = h
		}
	}
	require.Equal(t, "session-1", history.SessionID)

	v, _ = v.Update(history)
	assert.Equal(t, 2, v.Entries())
	assert.Contains(t, v.View(), "Quarterly figures.")
}

func TestView_SubmitAsksTheService(t *testing.T) {
	service := &stubService{
		answer: &domain.Answer{
			Text:        "Revenue grew 12%.",
			Sources:     []string{"report.pdf"},
			UsedContext: true,
		},
	}
	v := newTestView(service, nil)
	_ = v.SetConversation(domain.Conversation{SessionID: "session-1", Name: "Q3"})

	v.prompt.SetValue("How did revenue develop?")
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.True(t, v.Waiting())
	assert.Equal(t, 1, v.Entries())

	answered, ok := cmd().(messages.AnswerReceived)
	require.True(t, ok)
	require.NoError(t, answered.Err)
	assert.Equal(t, []string{"How did revenue develop?"}, service.asked)

	v, _ = v.Update(answered)
	assert.False(t, v.Waiting())
	assert.Equal(t, 2, v.Entries())
	assert.Contains(t, v.View(), "Revenue grew 12%.")
	assert.Contains(t, v.View(), "report.pdf")
}

func TestView_EmptyQuestionIsNotSubmitted(t *testing.T) {
	service := &stubService{}
	v := newTestView(service, nil)
	_ = v.SetConversation(domain.Conversation{SessionID: "session-1", Name: "Q3"})

	v.prompt.SetValue("   ")
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, v.Waiting())
	assert.Empty(t, service.asked)
}

func TestView_NoSecondQuestionWhileWaiting(t *testing.T) {
	service := &stubService{answer: &domain.Answer{Text: "ok"}}
	v := newTestView(service, nil)
	_ = v.SetConversation(domain.Conversation{SessionID: "session-1", Name: "Q3"})

	v.prompt.SetValue("first")
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	v.prompt.SetValue("second")
	v, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, v.Entries())
}

func TestView_GenerationFailureShowsError(t *testing.T) {
	v := newTestView(&stubService{}, nil)
	_ = v.SetConversation(domain.Conversation{SessionID: "session-1", Name: "Q3"})

	v, _ = v.Update(messages.AnswerReceived{Err: errors.New("no chat backend configured")})

	assert.Error(t, v.Err())
	assert.False(t, v.Waiting())
	assert.Contains(t, v.View(), "no chat backend configured")
}

func TestView_ToggleSources(t *testing.T) {
	v := newTestView(&stubService{}, nil)
	_ = v.SetConversation(domain.Conversation{SessionID: "session-1", Name: "Q3"})
	v, _ = v.Update(messages.AnswerReceived{Answer: &domain.Answer{
		Text:        "From the report.",
		Sources:     []string{"report.pdf"},
		UsedContext: true,
	}})
	assert.Contains(t, v.View(), "report.pdf")

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.False(t, v.ShowSources())
	assert.NotContains(t, v.View(), "report.pdf")
}

func TestView_NoContextNote(t *testing.T) {
	v := newTestView(&stubService{}, nil)
	_ = v.SetConversation(domain.Conversation{SessionID: "session-1", Name: "Empty"})

	v, _ = v.Update(messages.AnswerReceived{Answer: &domain.Answer{Text: "Answered from general knowledge."}})

	assert.Contains(t, v.View(), "no document context used")
}

func TestView_StaleHistoryIsIgnored(t *testing.T) {
	v := newTestView(&stubService{}, nil)
	_ = v.SetConversation(domain.Conversation{SessionID: "session-2", Name: "Other"})

	v, _ = v.Update(messages.HistoryLoaded{
		SessionID: "session-1",
		Messages:  []domain.Message{{Role: domain.RoleUser, Content: "old"}},
	})

	assert.Equal(t, 0, v.Entries())
}

func TestView_EscReturnsToPicker(t *testing.T) {
	v := newTestView(&stubService{}, nil)
	_ = v.SetConversation(domain.Conversation{SessionID: "session-1", Name: "Q3"})

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewConversations, changed.View)
	_ = v
}
