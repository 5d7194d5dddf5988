package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("q", km.Quit))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("tab", km.NextView))
	assert.True(t, Matches("shift+tab", km.PrevView))
	assert.True(t, Matches("j", km.Down))
	assert.False(t, Matches("x", km.Quit))
}

func TestHelpGroups(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ShortHelp(), 3)
	assert.Contains(t, km.ChatHelp(), km.Send)
	assert.NotContains(t, km.ChatHelp(), km.Quit, "q is typed into the chat input")
	assert.Contains(t, km.DocumentsHelp(), km.Up)

	total := 0
	for _, group := range km.FullHelp() {
		total += len(group)
	}
	assert.Equal(t, 9, total)
}
