package chat

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/datacrafter/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
)

type stubAnalysis struct {
	driving.AnalysisService
	got   []string
	reply *driving.ChatReply
	err   error
}

func (s *stubAnalysis) Chat(_ context.Context, message string) (*driving.ChatReply, error) {
	s.got = append(s.got, message)
	return s.reply, s.err
}

func typeText(v *View, text string) {
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func enter(v *View) tea.Cmd {
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestView_Send(t *testing.T) {
	stub := &stubAnalysis{reply: &driving.ChatReply{Answer: "42"}}
	v := NewView(nil, stub)

	typeText(v, "  what is the answer?  ")
	cmd := enter(v)
	require.NotNil(t, cmd)
	assert.True(t, v.Pending())

	msg := cmd()
	assert.Equal(t, []string{"what is the answer?"}, stub.got)

	v.Update(msg)
	assert.False(t, v.Pending())
	require.Len(t, v.Turns(), 1)
	assert.Equal(t, "42", v.Turns()[0].Answer)
	assert.Contains(t, v.View(), "42")
}

func TestView_SendIgnoresBlankAndPending(t *testing.T) {
	v := NewView(nil, &stubAnalysis{})

	assert.Nil(t, enter(v), "blank input")

	typeText(v, "one")
	require.NotNil(t, enter(v))
	typeText(v, "two")
	assert.Nil(t, enter(v), "reply still pending")
}

func TestView_ReplyWithReport(t *testing.T) {
	v := NewView(nil, &stubAnalysis{})

	v.Update(messages.ChatCompleted{
		Message: "long text",
		Reply: &driving.ChatReply{
			Answer: "done",
			Report: &domain.AnalysisReport{Result: domain.AnalysisResult{
				Elements: []domain.Element{{Title: "a"}, {Title: "b"}},
			}},
		},
	})

	assert.Contains(t, v.View(), "2 elements")
}

func TestView_Error(t *testing.T) {
	v := NewView(nil, &stubAnalysis{})

	v.Update(messages.ChatCompleted{Message: "hi", Err: errors.New("model offline")})

	assert.Contains(t, v.View(), "Error: model offline")
}

func TestView_TurnsAreCapped(t *testing.T) {
	v := NewView(nil, &stubAnalysis{})

	for i := 0; i < maxTurns+5; i++ {
		v.Update(messages.ChatCompleted{Message: "m", Reply: &driving.ChatReply{Answer: "r"}})
	}

	assert.Len(t, v.Turns(), maxTurns)
}

func TestView_NoAnalysis(t *testing.T) {
	v := NewView(nil, nil)

	typeText(v, "hello")
	assert.Nil(t, enter(v))
	assert.Contains(t, v.View(), "No AI model configured")
}
