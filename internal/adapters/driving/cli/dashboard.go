package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
)

var (
	dashboardJSON bool

	notifyType  string
	notifyTitle string

	headerTitle    string
	headerSubtitle string
	headerActions  string
	headerRecent   string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Manage the dashboard configuration",
	RunE:  runDashboardShow,
}

var dashboardShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the dashboard configuration",
	RunE:  runDashboardShow,
}

var dashboardResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default dashboard",
	RunE:  runDashboardReset,
}

var dashboardStatusCmd = &cobra.Command{
	Use:   "status [active|degraded|down] [message]",
	Short: "Set the system status",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runDashboardStatus,
}

var dashboardNotifyCmd = &cobra.Command{
	Use:   "notify [message]",
	Short: "Add a dashboard notification",
	Args:  cobra.ExactArgs(1),
	RunE:  runDashboardNotify,
}

var dashboardHeadersCmd = &cobra.Command{
	Use:   "headers",
	Short: "Change the dashboard headers",
	Long:  `Changes only the headers whose flags are given.`,
	RunE:  runDashboardHeaders,
}

func init() {
	dashboardCmd.PersistentFlags().BoolVar(&dashboardJSON, "json", false, "output as JSON")
	dashboardNotifyCmd.Flags().StringVar(&notifyType, "type", "info", "notification type (info, success, warning, error)")
	dashboardNotifyCmd.Flags().StringVar(&notifyTitle, "title", "", "notification title")
	dashboardHeadersCmd.Flags().StringVar(&headerTitle, "title", "", "main title")
	dashboardHeadersCmd.Flags().StringVar(&headerSubtitle, "subtitle", "", "subtitle")
	dashboardHeadersCmd.Flags().StringVar(&headerActions, "quick-actions", "", "quick actions section title")
	dashboardHeadersCmd.Flags().StringVar(&headerRecent, "recent", "", "recent documents section title")

	dashboardCmd.AddCommand(dashboardShowCmd)
	dashboardCmd.AddCommand(dashboardResetCmd)
	dashboardCmd.AddCommand(dashboardStatusCmd)
	dashboardCmd.AddCommand(dashboardNotifyCmd)
	dashboardCmd.AddCommand(dashboardHeadersCmd)
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboardShow(cmd *cobra.Command, _ []string) error {
	if dashboardService == nil {
		return errors.New("dashboard service not configured")
	}

	d := dashboardService.Load()
	if dashboardJSON {
		return printJSON(cmd, d)
	}

	cmd.Println(d.Headers.MainTitle)
	cmd.Println(d.Headers.Subtitle)
	cmd.Println()
	cmd.Printf("Status: %s (%s)\n", d.SystemStatus.Status, d.SystemStatus.Message)
	cmd.Println()

	cmd.Printf("[%s]\n", d.Headers.QuickActionsTitle)
	for _, a := range d.QuickActions {
		state := ""
		if !a.Enabled {
			state = " (disabled)"
		}
		cmd.Printf("  %-18s %s%s\n", a.Title, a.Description, state)
	}
	cmd.Println()

	cmd.Println("[Notifications]")
	if len(d.Notifications) == 0 {
		cmd.Println("  (none)")
	}
	for _, n := range d.Notifications {
		title := n.Title
		if title == "" {
			title = n.Type
		}
		cmd.Printf("  %s  %-10s %s\n", n.Timestamp.Local().Format(time.DateTime), title, n.Message)
	}
	return nil
}

func runDashboardReset(cmd *cobra.Command, _ []string) error {
	if dashboardService == nil {
		return errors.New("dashboard service not configured")
	}
	dashboardService.Reset()
	cmd.Println("Dashboard reset to defaults.")
	return nil
}

func runDashboardStatus(cmd *cobra.Command, args []string) error {
	if dashboardService == nil {
		return errors.New("dashboard service not configured")
	}

	status := args[0]
	switch status {
	case domain.SystemActive, domain.SystemDegraded, domain.SystemDown:
	default:
		return fmt.Errorf("invalid status %q: use active, degraded or down", status)
	}
	message := ""
	if len(args) == 2 {
		message = args[1]
	}

	s := dashboardService.SetSystemStatus(status, message)
	cmd.Printf("System status: %s\n", s.Status)
	return nil
}

func runDashboardNotify(cmd *cobra.Command, args []string) error {
	if dashboardService == nil {
		return errors.New("dashboard service not configured")
	}

	n := dashboardService.AddNotification(domain.Notification{
		Type:    notifyType,
		Title:   notifyTitle,
		Message: args[0],
	})
	cmd.Printf("Notification %d added.\n", n.ID)
	return nil
}

func runDashboardHeaders(cmd *cobra.Command, _ []string) error {
	if dashboardService == nil {
		return errors.New("dashboard service not configured")
	}

	var update domain.HeadersUpdate
	flags := cmd.Flags()
	if flags.Changed("title") {
		update.MainTitle = &headerTitle
	}
	if flags.Changed("subtitle") {
		update.Subtitle = &headerSubtitle
	}
	if flags.Changed("quick-actions") {
		update.QuickActionsTitle = &headerActions
	}
	if flags.Changed("recent") {
		update.RecentDocumentsTitle = &headerRecent
	}
	if update.IsEmpty() {
		return errors.New("no headers given")
	}

	d := dashboardService.UpdateHeaders(update)
	cmd.Printf("Headers updated: %s\n", d.Headers.MainTitle)
	return nil
}
