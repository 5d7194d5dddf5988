package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/datacrafter/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for DataCrafter.

The TUI shows the dashboard, the processed documents and a chat with the
configured AI model. It refreshes whenever the metrics or the dashboard
change, including changes made by a server running against the same store.

Controls:
  Tab      - Next view
  ↑/k, ↓/j - Navigate documents
  Enter    - Send chat message
  Esc      - Back
  r        - Refresh
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if metricsService == nil || dashboardService == nil {
		return errors.New("metrics and dashboard services not configured")
	}

	app, err := tui.NewApp(&tui.Ports{
		Metrics:   metricsService,
		Dashboard: dashboardService,
		Analysis:  analysisService,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())

	if persistence != nil {
		notifier := tui.NewNotifier(p.Send)
		persistence.Subscribe(notifier)
		defer persistence.Unsubscribe(notifier)
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
