package list

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
)

func docs(names ...string) []domain.DocumentRecord {
	out := make([]domain.DocumentRecord, 0, len(names))
	for i, n := range names {
		out = append(out, domain.DocumentRecord{
			ID:        int64(i + 1),
			FileName:  n,
			Type:      domain.DocumentTypePDF,
			Status:    domain.DocumentProcessed,
			Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		})
	}
	return out
}

func TestDocumentList_Empty(t *testing.T) {
	l := NewDocumentList(nil)

	assert.Contains(t, l.View(), "No documents")
	_, ok := l.Selected()
	assert.False(t, ok)
}

func TestDocumentList_Navigation(t *testing.T) {
	l := NewDocumentList(nil)
	l.SetDocuments(docs("a.pdf", "b.pdf", "c.pdf"))

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, l.SelectedIndex())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 2, l.SelectedIndex(), "stops at the last record")

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	assert.Equal(t, 0, l.SelectedIndex())

	l.MoveUp()
	assert.Equal(t, 0, l.SelectedIndex(), "stops at the first record")

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	d, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "c.pdf", d.FileName)
}

func TestDocumentList_SetDocumentsClampsSelection(t *testing.T) {
	l := NewDocumentList(nil)
	l.SetDocuments(docs("a.pdf", "b.pdf", "c.pdf"))
	l.MoveDown()
	l.MoveDown()

	l.SetDocuments(docs("a.pdf"))

	assert.Equal(t, 0, l.SelectedIndex())
}

func TestDocumentList_Scrolls(t *testing.T) {
	l := NewDocumentList(nil)
	l.SetSize(80, 3)
	l.SetDocuments(docs("a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf"))

	for range 4 {
		l.MoveDown()
	}

	view := l.View()
	assert.Contains(t, view, "e.pdf")
	assert.NotContains(t, view, "a.pdf")
	assert.Contains(t, view, "5/5")
}
