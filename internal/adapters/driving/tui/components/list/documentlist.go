// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/datacrafter/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/datacrafter/internal/core/domain"
)

// DocumentList displays document records in a navigable list.
type DocumentList struct {
	docs     []domain.DocumentRecord
	selected int
	offset   int
	styles   *styles.Styles
	width    int
	height   int
}

// NewDocumentList creates a new document list component.
func NewDocumentList(s *styles.Styles) *DocumentList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &DocumentList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Update handles list navigation messages.
func (l *DocumentList) Update(msg tea.Msg) (*DocumentList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
			l.scroll()
		case "end", "G":
			l.selected = max(len(l.docs)-1, 0)
			l.scroll()
		}
	}
	return l, nil
}

// View renders the list.
func (l *DocumentList) View() string {
	if len(l.docs) == 0 {
		return l.styles.Muted.Render("No documents processed yet")
	}

	end := min(l.offset+l.visible(), len(l.docs))
	lines := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		line := l.renderRow(l.docs[i])
		if i == l.selected {
			line = l.styles.Selected.Render("> " + line)
		} else {
			line = l.styles.Normal.Render("  " + line)
		}
		lines = append(lines, line)
	}

	if len(l.docs) > l.visible() {
		lines = append(lines, l.styles.Muted.Render(fmt.Sprintf("  %d/%d", l.selected+1, len(l.docs))))
	}
	return strings.Join(lines, "\n")
}

func (l *DocumentList) renderRow(d domain.DocumentRecord) string {
	nameWidth := max(l.width-48, 12)
	name := d.FileName
	if r := []rune(name); len(r) > nameWidth {
		name = string(r[:nameWidth-1]) + "…"
	}
	return fmt.Sprintf("%-*s %-6s %-10s %4d  %s",
		nameWidth, name, d.Type, d.Status, d.NumChunks, d.Timestamp.Local().Format(time.DateTime))
}

func (l *DocumentList) visible() int {
	return max(l.height-1, 1)
}

func (l *DocumentList) scroll() {
	if l.selected < l.offset {
		l.offset = l.selected
	}
	if l.selected >= l.offset+l.visible() {
		l.offset = l.selected - l.visible() + 1
	}
}

// SetDocuments replaces the records, keeping the selection in range.
func (l *DocumentList) SetDocuments(docs []domain.DocumentRecord) {
	l.docs = docs
	if l.selected >= len(docs) {
		l.selected = max(len(docs)-1, 0)
	}
	if l.offset > l.selected {
		l.offset = l.selected
	}
}

// Documents returns the current records.
func (l *DocumentList) Documents() []domain.DocumentRecord {
	return l.docs
}

// MoveUp moves the selection up.
func (l *DocumentList) MoveUp() {
	if l.selected > 0 {
		l.selected--
		l.scroll()
	}
}

// MoveDown moves the selection down.
func (l *DocumentList) MoveDown() {
	if l.selected < len(l.docs)-1 {
		l.selected++
		l.scroll()
	}
}

// SelectedIndex returns the index of the selected record.
func (l *DocumentList) SelectedIndex() int {
	return l.selected
}

// Selected returns the selected record.
func (l *DocumentList) Selected() (domain.DocumentRecord, bool) {
	if len(l.docs) == 0 {
		return domain.DocumentRecord{}, false
	}
	return l.docs[l.selected], true
}

// SetSize sets the list dimensions.
func (l *DocumentList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.scroll()
}
