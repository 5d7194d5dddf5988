// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/datacrafter/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/datacrafter/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/datacrafter/internal/core/domain"
)

// State represents the current activity for display.
type State string

const (
	StateReady   State = "ready"
	StateWorking State = "working"
	StateError   State = "error"
)

// Bar displays the system status, the last store update and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	state    State
	message  string
	system   domain.SystemStatus
	updated  time.Time
	bindings []key.Binding
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:   s,
		state:    StateReady,
		bindings: km.ShortHelp(),
		width:    80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	parts := make([]string, 0, 3)

	if s.system.Status != "" {
		parts = append(parts, s.styles.Status(s.system.Status).Render("● "+s.system.Status))
	}

	switch s.state {
	case StateWorking:
		msg := "Working..."
		if s.message != "" {
			msg = s.message
		}
		parts = append(parts, s.styles.Muted.Render(msg))
	case StateError:
		msg := "Error"
		if s.message != "" {
			msg = fmt.Sprintf("Error: %s", s.message)
		}
		parts = append(parts, s.styles.Error.Render(msg))
	case StateReady:
		if s.message != "" {
			parts = append(parts, s.styles.Normal.Render(s.message))
		}
	}

	if !s.updated.IsZero() {
		parts = append(parts, s.styles.Muted.Render("updated "+s.updated.Local().Format(time.TimeOnly)))
	}
	return strings.Join(parts, "  ")
}

func (s *Bar) renderRight() string {
	hints := make([]string, 0, len(s.bindings))
	for _, b := range s.bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state and message.
func (s *Bar) SetState(state State, message string) {
	s.state = state
	s.message = message
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetSystemStatus sets the system status shown on the left.
func (s *Bar) SetSystemStatus(status domain.SystemStatus) {
	s.system = status
}

// SetUpdated records when the stores last changed.
func (s *Bar) SetUpdated(t time.Time) {
	s.updated = t
}

// SetBindings replaces the keybinding hints.
func (s *Bar) SetBindings(bindings []key.Binding) {
	s.bindings = bindings
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Clear resets the status bar to the ready state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
