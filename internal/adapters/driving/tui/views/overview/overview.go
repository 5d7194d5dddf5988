// Package overview provides the dashboard view of the TUI.
package overview

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/datacrafter/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/datacrafter/internal/core/domain"
)

// maxNotifications is how many notifications are shown.
const maxNotifications = 5

// View renders the dashboard headers, headline metrics and notifications.
type View struct {
	styles    *styles.Styles
	dashboard domain.DashboardConfig
	metrics   domain.AnalyticsView
	width     int
	height    int
}

// NewView creates a new overview.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:    s,
		dashboard: domain.DefaultDashboard(),
		width:     80,
		height:    24,
	}
}

// SetDashboard replaces the dashboard state.
func (v *View) SetDashboard(d domain.DashboardConfig) {
	v.dashboard = d
}

// SetMetrics replaces the metrics state.
func (v *View) SetMetrics(m domain.AnalyticsView) {
	v.metrics = m
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// View renders the overview.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(v.dashboard.Headers.MainTitle))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(v.dashboard.Headers.Subtitle))
	b.WriteString("\n\n")

	b.WriteString(v.renderCards())
	b.WriteString("\n\n")

	if types := v.renderTypes(); types != "" {
		b.WriteString(v.styles.Subtitle.Render("Document types"))
		b.WriteString("\n")
		b.WriteString(types)
		b.WriteString("\n\n")
	}

	b.WriteString(v.styles.Subtitle.Render(v.dashboard.Headers.RecentDocumentsTitle))
	b.WriteString("\n")
	b.WriteString(v.renderRecent())
	b.WriteString("\n\n")

	b.WriteString(v.styles.Subtitle.Render("Notifications"))
	b.WriteString("\n")
	b.WriteString(v.renderNotifications())

	return b.String()
}

func (v *View) card(label, value string) string {
	return v.styles.Card.Render(v.styles.Value.Render(value) + "\n" + v.styles.Label.Render(label))
}

func (v *View) renderCards() string {
	m := v.metrics.Metrics
	perf := v.metrics.Performance
	errorRate := v.styles.Value
	if m.ErrorRate >= 10 {
		errorRate = v.styles.Error.Bold(true)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		v.card("documents", fmt.Sprintf("%d", m.TotalDocuments)),
		v.card("processed", fmt.Sprintf("%d", m.ProcessedDocuments)),
		v.card("chunks", fmt.Sprintf("%d", m.TotalChunks)),
		v.styles.Card.Render(errorRate.Render(fmt.Sprintf("%.2f%%", m.ErrorRate))+"\n"+v.styles.Label.Render("error rate")),
		v.card("uploads today", fmt.Sprintf("%d", perf.UploadsToday)),
		v.card("queries", fmt.Sprintf("%d", perf.QueriesProcessed)),
	)
}

func (v *View) renderTypes() string {
	types := make([]string, 0, len(v.metrics.DocumentTypes))
	for t, n := range v.metrics.DocumentTypes {
		if n > 0 {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		return ""
	}
	sort.Strings(types)

	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, fmt.Sprintf("%s %s", v.styles.Label.Render(t), v.styles.Value.Render(fmt.Sprint(v.metrics.DocumentTypes[t]))))
	}
	return "  " + strings.Join(parts, "   ")
}

func (v *View) renderRecent() string {
	docs := v.metrics.RecentDocuments
	if len(docs) == 0 {
		return v.styles.Muted.Render("  No documents processed yet")
	}

	limit := min(len(docs), max(v.height/4, 3))
	lines := make([]string, 0, limit)
	for _, d := range docs[:limit] {
		lines = append(lines, fmt.Sprintf("  %s %s",
			v.styles.Muted.Render(d.Timestamp.Local().Format(time.DateTime)),
			v.styles.Normal.Render(d.FileName)))
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderNotifications() string {
	notes := v.dashboard.Notifications
	if len(notes) == 0 {
		return v.styles.Muted.Render("  (none)")
	}

	lines := make([]string, 0, maxNotifications)
	for _, n := range notes[:min(len(notes), maxNotifications)] {
		text := n.Message
		if n.Title != "" {
			text = n.Title + ": " + n.Message
		}
		lines = append(lines, fmt.Sprintf("  %s %s",
			v.styles.Muted.Render(n.Timestamp.Local().Format(time.TimeOnly)),
			v.styles.Notification(n.Type).Render(text)))
	}
	return strings.Join(lines, "\n")
}
