// Package chat provides the chat view of the TUI.
package chat

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/datacrafter/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/datacrafter/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/datacrafter/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
)

// maxTurns is how many exchanges are kept on screen.
const maxTurns = 20

// Turn is one message and its reply.
type Turn struct {
	Message string
	Answer  string
	Err     error
}

// View sends messages to the AI model and shows the conversation.
type View struct {
	styles   *styles.Styles
	input    *input.MessageInput
	analysis driving.AnalysisService
	ctx      context.Context

	turns   []Turn
	pending bool
	width   int
	height  int
}

// NewView creates a new chat view. analysis may be nil.
func NewView(s *styles.Styles, analysis driving.AnalysisService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		input:    input.NewMessageInput(s, "You:"),
		analysis: analysis,
		ctx:      context.Background(),
		width:    80,
		height:   24,
	}
}

// WithContext sets the context used for requests.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the cursor blinking.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles keys and replies.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			return v, v.send()
		}

	case messages.ChatCompleted:
		v.pending = false
		turn := Turn{Message: msg.Message, Err: msg.Err}
		if msg.Reply != nil {
			turn.Answer = msg.Reply.Answer
			if msg.Reply.Report != nil {
				turn.Answer += fmt.Sprintf("\n(analysed as a document: %d elements)",
					len(msg.Reply.Report.Result.Elements))
			}
		}
		v.turns = append(v.turns, turn)
		if len(v.turns) > maxTurns {
			v.turns = v.turns[len(v.turns)-maxTurns:]
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) send() tea.Cmd {
	message := strings.TrimSpace(v.input.Value())
	if message == "" || v.pending || v.analysis == nil {
		return nil
	}
	v.input.Reset()
	v.pending = true

	analysis, ctx := v.analysis, v.ctx
	return func() tea.Msg {
		reply, err := analysis.Chat(ctx, message)
		return messages.ChatCompleted{Message: message, Reply: reply, Err: err}
	}
}

// Pending reports whether a reply is awaited.
func (v *View) Pending() bool {
	return v.pending
}

// Turns returns the conversation so far.
func (v *View) Turns() []Turn {
	return v.turns
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
}

// View renders the conversation and the input.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Chat"))
	b.WriteString("\n\n")

	if v.analysis == nil {
		b.WriteString(v.styles.Warning.Render("No AI model configured. Run 'datacrafter settings llm'."))
		return b.String()
	}

	for _, t := range v.turns {
		b.WriteString(v.styles.Subtitle.Render("You: "))
		b.WriteString(v.styles.Normal.Render(t.Message))
		b.WriteString("\n")
		if t.Err != nil {
			b.WriteString(v.styles.Error.Render("Error: " + t.Err.Error()))
		} else {
			b.WriteString(v.styles.Normal.Render(t.Answer))
		}
		b.WriteString("\n\n")
	}
	if v.pending {
		b.WriteString(v.styles.Muted.Render("Thinking..."))
		b.WriteString("\n\n")
	}

	b.WriteString(v.input.View())
	return b.String()
}
