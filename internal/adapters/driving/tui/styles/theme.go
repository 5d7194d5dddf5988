// Package styles holds the colour palette and lipgloss styles of the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette the styles are derived from.
type Theme struct {
	// Accents.
	Primary   lipgloss.Color
	Secondary lipgloss.Color

	// Text and surfaces.
	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color

	// Outcomes.
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// DefaultTheme returns the dark palette used by default.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    "#2563EB",
		Secondary:  "#10B981",
		Background: "#1E1E2E",
		Foreground: "#CDD6F4",
		Muted:      "#6C7086",
		Border:     "#45475A",
		Success:    "#A6E3A1",
		Warning:    "#F9E2AF",
		Error:      "#F38BA8",
	}
}

// Styles are the rendered styles for one theme.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style

	// Selected highlights the cursor row of a list.
	Selected lipgloss.Style

	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Border     lipgloss.Style

	// Card frames one group of figures on the overview; Label captions a
	// figure and Value renders it.
	Card  lipgloss.Style
	Label lipgloss.Style
	Value lipgloss.Style

	// Tab and ActiveTab render the view selector.
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func bold(c lipgloss.Color) lipgloss.Style {
	return fg(c).Bold(true)
}

func framed(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(c)
}

// NewStyles derives the styles from theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title:    bold(theme.Primary),
		Subtitle: bold(theme.Secondary),
		Normal:   fg(theme.Foreground),
		Muted:    fg(theme.Muted),
		Help:     fg(theme.Muted),
		Selected: bold(theme.Foreground).Background(theme.Primary),

		Error:   fg(theme.Error),
		Success: fg(theme.Success),
		Warning: fg(theme.Warning),

		InputField: framed(theme.Border).Padding(0, 1),
		StatusBar:  fg(theme.Muted).Background(theme.Background).Padding(0, 1),
		Border:     framed(theme.Border),

		Card:  framed(theme.Border).Padding(0, 2).MarginRight(1),
		Label: fg(theme.Muted),
		Value: bold(theme.Foreground),

		Tab:       fg(theme.Muted).Padding(0, 1),
		ActiveTab: bold(theme.Foreground).Background(theme.Primary).Padding(0, 1),
	}
}

// DefaultStyles returns the styles of DefaultTheme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette behind the styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Status returns the style for a dashboard system status.
func (s *Styles) Status(status string) lipgloss.Style {
	switch status {
	case "active":
		return s.Success
	case "degraded":
		return s.Warning
	case "down":
		return s.Error
	default:
		return s.Muted
	}
}

// Notification returns the style for a dashboard notification type.
func (s *Styles) Notification(kind string) lipgloss.Style {
	switch kind {
	case "success":
		return s.Success
	case "warning":
		return s.Warning
	case "error":
		return s.Error
	default:
		return s.Normal
	}
}
