// Package chat provides the question-and-answer view for one conversation.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docuverse/docuverse/internal/adapters/driving/tui/components/input"
	"github.com/docuverse/docuverse/internal/adapters/driving/tui/components/status"
	"github.com/docuverse/docuverse/internal/adapters/driving/tui/keymap"
	"github.com/docuverse/docuverse/internal/adapters/driving/tui/messages"
	"github.com/docuverse/docuverse/internal/adapters/driving/tui/styles"
	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driving"
)

// entry is one rendered turn of the transcript.
type entry struct {
	role    string
	text    string
	sources []string
	noDocs  bool
}

// View is the chat view: a transcript, a prompt and a status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	prompt     *input.PromptInput
	transcript viewport.Model
	statusbar  *status.Bar

	conversation driving.ConversationService
	indexer      driving.Indexer
	ctx          context.Context

	session     domain.Conversation
	entries     []entry
	showSources bool
	waiting     bool
	err         error

	width  int
	height int
	ready  bool
}

// NewView creates a new chat view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	conversation driving.ConversationService,
	indexer driving.Indexer,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetChatMode(true)

	return &View{
		styles:       s,
		keymap:       km,
		prompt:       input.NewPromptInput(s),
		transcript:   viewport.New(80, 18),
		statusbar:    bar,
		conversation: conversation,
		indexer:      indexer,
		ctx:          context.Background(),
		showSources:  true,
		width:        80,
		height:       24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.prompt.Init()
}

// SetConversation opens a conversation: the transcript is reset, the
// session's index is rebuilt and the stored history is loaded.
func (v *View) SetConversation(conv domain.Conversation) tea.Cmd {
	v.session = conv
	v.entries = nil
	v.err = nil
	v.waiting = false
	v.prompt.Reset()
	v.statusbar.SetState(status.StateReady)
	v.refreshTranscript()

	return tea.Batch(v.rebuildIndex(), v.loadHistory())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.HistoryLoaded:
		if msg.SessionID != v.session.SessionID {
			return v, nil
		}
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.entries = nil
		for _, m := range msg.Messages {
			v.entries = append(v.entries, entry{role: m.Role, text: m.Content})
		}
		v.refreshTranscript()
		return v, nil

	case messages.AnswerReceived:
		v.waiting = false
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.statusbar.SetState(status.StateReady)
		v.entries = append(v.entries, entry{
			role:    domain.RoleAssistant,
			text:    msg.Answer.Text,
			sources: msg.Answer.Sources,
			noDocs:  !msg.Answer.UsedContext,
		})
		v.refreshTranscript()
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewConversations}
		}

	case tea.KeyEnter:
		question := strings.TrimSpace(v.prompt.Value())
		if question == "" || v.waiting {
			return v, nil
		}
		v.entries = append(v.entries, entry{role: domain.RoleUser, text: question})
		v.prompt.Reset()
		v.waiting = true
		v.err = nil
		v.statusbar.SetState(status.StateThinking)
		v.refreshTranscript()
		return v, v.ask(question)

	case tea.KeyCtrlS:
		v.showSources = !v.showSources
		v.refreshTranscript()
		return v, nil

	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render(v.session.Name))
	b.WriteString("\n")
	b.WriteString(v.transcript.View())
	b.WriteString("\n")
	b.WriteString(v.prompt.View())
	b.WriteString("\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

// SetDimensions sets the terminal dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.transcript.Width = width
	transcriptHeight := height - 6
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}
	v.transcript.Height = transcriptHeight
	v.prompt.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.refreshTranscript()
}

// Session returns the open conversation.
func (v *View) Session() domain.Conversation {
	return v.session
}

// Waiting reports whether an answer is pending.
func (v *View) Waiting() bool {
	return v.waiting
}

// ShowSources reports whether source filenames are displayed.
func (v *View) ShowSources() bool {
	return v.showSources
}

// Entries returns the number of transcript turns.
func (v *View) Entries() int {
	return len(v.entries)
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// refreshTranscript re-renders the viewport content and scrolls to
// the latest turn.
func (v *View) refreshTranscript() {
	var b strings.Builder
	for i, e := range v.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		switch e.role {
		case domain.RoleUser:
			b.WriteString(v.styles.UserLabel.Render("You"))
		default:
			b.WriteString(v.styles.AssistantLabel.Render("DocuVerse"))
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Render(e.text))
		b.WriteString("\n")

		if e.noDocs {
			b.WriteString(v.styles.Muted.Render("(no document context used)"))
			b.WriteString("\n")
		}
		if v.showSources && len(e.sources) > 0 {
			b.WriteString(v.styles.SourceTag.Render("Sources: " + strings.Join(e.sources, ", ")))
			b.WriteString("\n")
		}
	}

	v.transcript.SetContent(b.String())
	v.transcript.GotoBottom()
}

func (v *View) ask(question string) tea.Cmd {
	sessionID := v.session.SessionID
	return func() tea.Msg {
		answer, err := v.conversation.Ask(v.ctx, sessionID, question)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

func (v *View) loadHistory() tea.Cmd {
	sessionID := v.session.SessionID
	return func() tea.Msg {
		msgs, err := v.conversation.History(v.ctx, sessionID)
		return messages.HistoryLoaded{SessionID: sessionID, Messages: msgs, Err: err}
	}
}

// rebuildIndex reconstructs the session's in-memory index. A partial
// rebuild is not fatal; affected documents simply stay unsearchable.
func (v *View) rebuildIndex() tea.Cmd {
	if v.indexer == nil {
		return nil
	}
	sessionID := v.session.SessionID
	indexer := v.indexer
	ctx := v.ctx
	return func() tea.Msg {
		_, _ = indexer.Rebuild(ctx, sessionID)
		return nil
	}
}
