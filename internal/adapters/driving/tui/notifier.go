package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/datacrafter/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
)

// Notifier forwards store changes into a running program.
type Notifier struct {
	send func(tea.Msg)
}

// Ensure Notifier implements driving.Listener.
var _ driving.Listener = (*Notifier)(nil)

// NewNotifier creates a listener that delivers StoreChanged messages through send,
// usually (*tea.Program).Send.
func NewNotifier(send func(tea.Msg)) *Notifier {
	return &Notifier{send: send}
}

// OnChange implements driving.Listener.
// Delivery is asynchronous: writes made from inside Update must not wait on
// the program's event loop.
func (n *Notifier) OnChange(key string) {
	go n.send(messages.StoreChanged{Key: key})
}
