// Package keymap holds the key bindings of the TUI.
package keymap

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap is the set of bindings shared by every view.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Back key.Binding

	// NextView and PrevView cycle overview, documents and chat.
	NextView key.Binding
	PrevView key.Binding

	// Up and Down move the cursor in the documents list.
	Up   key.Binding
	Down key.Binding

	// Send submits the chat input.
	Send key.Binding

	// Refresh reloads metrics and dashboard from storage.
	Refresh key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:     bind("q", "quit", "q", "ctrl+c"),
		Help:     bind("?", "help", "?"),
		Back:     bind("esc", "back", "esc"),
		NextView: bind("tab", "next view", "tab"),
		PrevView: bind("shift+tab", "previous view", "shift+tab"),
		Up:       bind("↑/k", "up", "up", "k"),
		Down:     bind("↓/j", "down", "down", "j"),
		Send:     bind("enter", "send", "enter"),
		Refresh:  bind("r", "refresh", "r"),
	}
}

// ShortHelp is shown in the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextView, k.Help, k.Quit}
}

// DocumentsHelp is shown under the documents list.
func (k *KeyMap) DocumentsHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextView, k.Quit}
}

// ChatHelp leaves out Quit and Help since q and ? are typed into the input.
func (k *KeyMap) ChatHelp() []key.Binding {
	return []key.Binding{k.Send, k.NextView, k.Back}
}

// FullHelp is the help view, one column per group.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextView, k.PrevView, k.Back},
		{k.Up, k.Down, k.Send},
		{k.Refresh, k.Help, k.Quit},
	}
}

// Matches reports whether keyStr is one of the binding's keys.
func Matches(keyStr string, binding key.Binding) bool {
	return slices.Contains(binding.Keys(), keyStr)
}
