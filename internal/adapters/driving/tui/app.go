package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/datacrafter/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/datacrafter/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/datacrafter/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/datacrafter/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/datacrafter/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/datacrafter/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/datacrafter/internal/adapters/driving/tui/views/overview"
)

// App is the main TUI application following the Elm architecture.
// It re-reads the stores whenever a StoreChanged message arrives.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	overviewView  *overview.View
	documentsView *documents.View
	chatView      *chat.View
	statusbar     *status.Bar

	currentView  messages.ViewType
	previousView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		overviewView:  overview.NewView(s),
		documentsView: documents.NewView(s),
		chatView:      chat.NewView(s, ports.Analysis),
		statusbar:     status.NewBar(s, km),
		currentView:   messages.ViewOverview,
	}
	a.refreshMetrics()
	a.refreshDashboard()
	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("datacrafter")
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.StoreChanged:
		if msg.IsMetrics() {
			a.refreshMetrics()
		}
		if msg.IsDashboard() {
			a.refreshDashboard()
		}
		a.statusbar.SetUpdated(time.Now())
		return a, nil

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.ChatCompleted:
		a.chatView, cmd = a.chatView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
			a.statusbar.SetState(status.StateError, msg.Err.Error())
		} else {
			a.statusbar.Clear()
		}
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusbar.SetState(status.StateError, msg.Err.Error())
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	if a.currentView == messages.ViewChat {
		a.chatView, cmd = a.chatView.Update(msg)
	}
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	// Global quit with ctrl+c
	if keyStr == "ctrl+c" {
		return a, tea.Quit
	}

	switch {
	case keymap.Matches(keyStr, a.keymap.NextView):
		return a, a.switchTo(a.step(1))
	case keymap.Matches(keyStr, a.keymap.PrevView):
		return a, a.switchTo(a.step(-1))
	}

	// The chat input takes every other key
	if a.currentView == messages.ViewChat {
		if msg.Type == tea.KeyEsc {
			return a, a.switchTo(messages.ViewOverview)
		}
		var cmd tea.Cmd
		a.chatView, cmd = a.chatView.Update(msg)
		if a.chatView.Pending() {
			a.statusbar.SetState(status.StateWorking, "Thinking...")
		}
		return a, cmd
	}

	switch {
	case keymap.Matches(keyStr, a.keymap.Quit):
		return a, tea.Quit
	case keymap.Matches(keyStr, a.keymap.Help):
		if a.currentView == messages.ViewHelp {
			return a, a.switchTo(a.previousView)
		}
		return a, a.switchTo(messages.ViewHelp)
	case keymap.Matches(keyStr, a.keymap.Back):
		if a.currentView == messages.ViewHelp {
			return a, a.switchTo(a.previousView)
		}
		return a, nil
	case keymap.Matches(keyStr, a.keymap.Refresh):
		a.refreshMetrics()
		a.refreshDashboard()
		a.statusbar.SetUpdated(time.Now())
		return a, nil
	}

	if a.currentView == messages.ViewDocuments {
		var cmd tea.Cmd
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd
	}
	return a, nil
}

// step returns the view d tabs away from the current one.
func (a *App) step(d int) messages.ViewType {
	views := messages.Views
	current := 0
	for i, v := range views {
		if v == a.currentView {
			current = i
		}
	}
	return views[(current+d+len(views))%len(views)]
}

func (a *App) switchTo(v messages.ViewType) tea.Cmd {
	if v != messages.ViewHelp {
		a.previousView = v
	} else if a.currentView != messages.ViewHelp {
		a.previousView = a.currentView
	}
	a.currentView = v

	bindings := a.keymap.ShortHelp()
	switch v {
	case messages.ViewDocuments:
		bindings = a.keymap.DocumentsHelp()
	case messages.ViewChat:
		bindings = a.keymap.ChatHelp()
		a.statusbar.SetBindings(bindings)
		return a.chatView.Init()
	case messages.ViewOverview, messages.ViewHelp:
	}
	a.statusbar.SetBindings(bindings)
	return nil
}

func (a *App) refreshMetrics() {
	a.overviewView.SetMetrics(a.ports.Metrics.Analytics())
	a.documentsView.SetHistory(a.ports.Metrics.History())
}

func (a *App) refreshDashboard() {
	d := a.ports.Dashboard.Load()
	a.overviewView.SetDashboard(d)
	a.statusbar.SetSystemStatus(d.SystemStatus)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewOverview:
		body = a.overviewView.View()
	case messages.ViewDocuments:
		body = a.documentsView.View()
	case messages.ViewChat:
		body = a.chatView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	}

	content := lipgloss.NewStyle().Height(max(a.height-3, 1)).MaxHeight(max(a.height-3, 1)).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, a.renderTabs(), content, a.statusbar.View())
}

func (a *App) renderTabs() string {
	tabs := make([]string, 0, len(messages.Views))
	for _, v := range messages.Views {
		style := a.styles.Tab
		if v == a.currentView {
			style = a.styles.ActiveTab
		}
		tabs = append(tabs, style.Render(v.Title()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n"
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, k := range group {
			h := k.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Muted.Render("The dashboard refreshes automatically when the data changes."))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	bodyHeight := max(height-3, 1)
	a.overviewView.SetDimensions(width, bodyHeight)
	a.documentsView.SetDimensions(width, bodyHeight)
	a.chatView.SetDimensions(width, bodyHeight)
	a.statusbar.SetWidth(width)
}
