// Package documents provides the document history view of the TUI.
package documents

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/datacrafter/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/datacrafter/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/datacrafter/internal/core/domain"
)

// detailLines is the height reserved for the detail pane.
const detailLines = 8

// View lists the document history, newest first, with details of the selection.
type View struct {
	styles *styles.Styles
	list   *list.DocumentList
	width  int
	height int
}

// NewView creates a new documents view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		list:   list.NewDocumentList(s),
		width:  80,
		height: 24,
	}
}

// SetHistory replaces the records. history is oldest first, as stored.
func (v *View) SetHistory(history []domain.DocumentRecord) {
	docs := make([]domain.DocumentRecord, len(history))
	for i := range history {
		docs[len(history)-1-i] = history[i]
	}
	v.list.SetDocuments(docs)
}

// Update handles navigation keys.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetSize(width, max(height-detailLines-3, 3))
}

// Selected returns the selected record.
func (v *View) Selected() (domain.DocumentRecord, bool) {
	return v.list.Selected()
}

// View renders the list and the detail pane.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(v.list.Documents()))))
	b.WriteString("\n\n")
	b.WriteString(v.list.View())
	b.WriteString("\n\n")

	if d, ok := v.list.Selected(); ok {
		b.WriteString(v.renderDetails(d))
	}
	return b.String()
}

func (v *View) renderDetails(d domain.DocumentRecord) string {
	rows := [][2]string{
		{"File", d.FileName},
		{"Type", d.Type},
		{"Status", string(d.Status)},
		{"Size", formatSize(d.SizeBytes)},
		{"Chunks", fmt.Sprint(d.NumChunks)},
	}
	if d.ElementsCount > 0 {
		rows = append(rows, [2]string{"Elements", fmt.Sprint(d.ElementsCount)})
	}
	if len(d.Categories) > 0 {
		rows = append(rows, [2]string{"Categories", strings.Join(d.Categories, ", ")})
	}
	if d.BlobName != "" {
		rows = append(rows, [2]string{"Blob", d.BlobName})
	}
	rows = append(rows, [2]string{"Created", d.Timestamp.Local().Format(time.DateTime)})

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s %s", v.styles.Label.Render(fmt.Sprintf("%-11s", r[0])), v.styles.Normal.Render(r[1])))
	}
	return v.styles.Border.Padding(0, 1).Render(strings.Join(lines, "\n"))
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
