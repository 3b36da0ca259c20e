// Package conversations provides the conversation picker view for the TUI.
package conversations

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docuverse/docuverse/internal/adapters/driving/tui/keymap"
	"github.com/docuverse/docuverse/internal/adapters/driving/tui/messages"
	"github.com/docuverse/docuverse/internal/adapters/driving/tui/styles"
	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driving"
)

// View lists conversations and lets the user open or create one.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.ConversationService
	ctx     context.Context

	conversations []domain.Conversation
	selected      int
	err           error

	width  int
	height int
	ready  bool
}

// NewView creates a new conversation picker.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.ConversationService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:  s,
		keymap:  km,
		service: service,
		ctx:     context.Background(),
		width:   80,
		height:  24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the conversation list.
func (v *View) Init() tea.Cmd {
	return v.loadConversations()
}

// Update handles messages for the picker.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case messages.ConversationsLoaded:
		v.conversations = msg.Conversations
		v.err = msg.Err
		if v.selected >= len(v.conversations) {
			v.selected = 0
		}
		return v, nil

	case messages.ConversationCreated:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		// Open the fresh conversation straight away.
		conv := *msg.Conversation
		return v, func() tea.Msg {
			return messages.ConversationSelected{Conversation: conv}
		}

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
		return v, nil

	case "down", "j":
		if v.selected < len(v.conversations)-1 {
			v.selected++
		}
		return v, nil

	case "enter":
		if len(v.conversations) == 0 {
			return v, nil
		}
		conv := v.conversations[v.selected]
		return v, func() tea.Msg {
			return messages.ConversationSelected{Conversation: conv}
		}

	case "n":
		return v, v.createConversation()

	case "q":
		return v, tea.Quit
	}

	return v, nil
}

// View renders the picker.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("DocuVerse"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Chat with your documents"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	if len(v.conversations) == 0 {
		b.WriteString(v.styles.Muted.Render("No conversations yet. Press n to start one."))
		b.WriteString("\n")
	}

	for i, conv := range v.conversations {
		cursor := "  "
		line := fmt.Sprintf("%s  %s", conv.Name, v.styles.Muted.Render(conv.CreatedAt.Format("2006-01-02")))
		if i == v.selected {
			cursor = "> "
			line = v.styles.Selected.Render(conv.Name) + "  " +
				v.styles.Muted.Render(conv.CreatedAt.Format("2006-01-02"))
		}
		b.WriteString(cursor + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("enter: open | n: new | j/k: move | q: quit"))

	return b.String()
}

// SetDimensions sets the terminal dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the index of the highlighted conversation.
func (v *View) Selected() int {
	return v.selected
}

// Conversations returns the loaded conversation list.
func (v *View) Conversations() []domain.Conversation {
	return v.conversations
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

func (v *View) loadConversations() tea.Cmd {
	return func() tea.Msg {
		convs, err := v.service.List(v.ctx)
		return messages.ConversationsLoaded{Conversations: convs, Err: err}
	}
}

func (v *View) createConversation() tea.Cmd {
	return func() tea.Msg {
		conv, err := v.service.New(v.ctx, "")
		return messages.ConversationCreated{Conversation: conv, Err: err}
	}
}
