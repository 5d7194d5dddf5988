// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewOverview shows the dashboard and the headline metrics.
	ViewOverview ViewType = iota
	// ViewDocuments lists processed documents.
	ViewDocuments
	// ViewChat sends messages to the AI model.
	ViewChat
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// Views lists the views reachable with tab, in order.
var Views = []ViewType{ViewOverview, ViewDocuments, ViewChat}

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewOverview:
		return "overview"
	case ViewDocuments:
		return "documents"
	case ViewChat:
		return "chat"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Title returns the tab label of the view.
func (v ViewType) Title() string {
	switch v {
	case ViewOverview:
		return "Overview"
	case ViewDocuments:
		return "Documents"
	case ViewChat:
		return "Chat"
	case ViewHelp:
		return "Help"
	default:
		return "?"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// StoreChanged is sent after a durable write to the metrics or dashboard store.
type StoreChanged struct {
	Key string
}

// IsMetrics reports whether the metrics store changed.
func (m StoreChanged) IsMetrics() bool {
	return m.Key == driving.MetricsKey
}

// IsDashboard reports whether the dashboard store changed.
func (m StoreChanged) IsDashboard() bool {
	return m.Key == driving.DashboardKey
}

// ChatRequested is a command to send a chat message.
type ChatRequested struct {
	Message string
}

// ChatCompleted carries the reply to a chat message.
type ChatCompleted struct {
	Message string
	Reply   *driving.ChatReply
	Err     error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
