package cli

import (
	"errors"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
)

var (
	metricsJSON  bool
	recentLimit  int
	metricsReset bool
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show processing metrics",
	Long:  `Shows the running totals, operation outcomes and document types recorded so far.`,
	RunE:  runMetricsShow,
}

var metricsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current metrics",
	RunE:  runMetricsShow,
}

var metricsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently processed documents",
	RunE:  runMetricsRecent,
}

var metricsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset all metrics to zero",
	RunE:  runMetricsReset,
}

func init() {
	metricsCmd.PersistentFlags().BoolVar(&metricsJSON, "json", false, "output as JSON")
	metricsRecentCmd.Flags().IntVarP(&recentLimit, "limit", "n", domain.RecentDocumentsLimit, "maximum number of documents")
	metricsResetCmd.Flags().BoolVarP(&metricsReset, "yes", "y", false, "skip confirmation")
	metricsCmd.AddCommand(metricsShowCmd)
	metricsCmd.AddCommand(metricsRecentCmd)
	metricsCmd.AddCommand(metricsResetCmd)
	rootCmd.AddCommand(metricsCmd)
}

func runMetricsShow(cmd *cobra.Command, _ []string) error {
	if metricsService == nil {
		return errors.New("metrics service not configured")
	}

	view := metricsService.Analytics()
	if metricsJSON {
		return printJSON(cmd, view)
	}

	m := view.Metrics
	cmd.Println("Documents")
	cmd.Println("=========")
	cmd.Printf("  Total:      %d\n", m.TotalDocuments)
	cmd.Printf("  Processed:  %d\n", m.ProcessedDocuments)
	cmd.Printf("  Pending:    %d\n", m.PendingDocuments)
	cmd.Printf("  Chunks:     %d\n", m.TotalChunks)
	cmd.Printf("  History:    %d records\n", view.HistorySize)
	cmd.Println()

	stats := view.ProcessingStats
	cmd.Println("Operations")
	cmd.Println("==========")
	cmd.Printf("  Total:      %d\n", m.OperationsCount)
	cmd.Printf("  Succeeded:  %d\n", stats.SuccessfulOperations)
	cmd.Printf("  Failed:     %d\n", stats.FailedOperations)
	cmd.Printf("  Error rate: %.2f%%\n", m.ErrorRate)
	cmd.Printf("  Avg time:   %s\n", time.Duration(stats.AverageProcessingTime)*time.Millisecond)
	cmd.Println()

	perf := view.Performance
	cmd.Println("Activity")
	cmd.Println("========")
	cmd.Printf("  Uploads today:     %d\n", perf.UploadsToday)
	cmd.Printf("  Queries processed: %d\n", perf.QueriesProcessed)
	cmd.Printf("  Uptime:            %s\n", time.Duration(perf.SystemUptime)*time.Second)
	cmd.Println()

	cmd.Println("Document types")
	cmd.Println("==============")
	types := make([]string, 0, len(view.DocumentTypes))
	for t := range view.DocumentTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		cmd.Printf("  %-8s %d\n", t, view.DocumentTypes[t])
	}

	if !view.LastUpdated.IsZero() {
		cmd.Printf("\nLast updated: %s\n", view.LastUpdated.Local().Format(time.DateTime))
	}
	return nil
}

func runMetricsRecent(cmd *cobra.Command, _ []string) error {
	if metricsService == nil {
		return errors.New("metrics service not configured")
	}

	docs := metricsService.RecentDocuments()
	if recentLimit > 0 && len(docs) > recentLimit {
		docs = docs[:recentLimit]
	}
	if metricsJSON {
		return printJSON(cmd, docs)
	}
	printDocuments(cmd, docs)
	return nil
}

func runMetricsReset(cmd *cobra.Command, _ []string) error {
	if metricsService == nil {
		return errors.New("metrics service not configured")
	}
	if !metricsReset && !confirm(cmd, "Reset all metrics?") {
		cmd.Println("Cancelled.")
		return nil
	}

	metricsService.Reset()
	cmd.Println("Metrics reset.")
	return nil
}

func printDocuments(cmd *cobra.Command, docs []domain.DocumentRecord) {
	if len(docs) == 0 {
		cmd.Println("No documents processed yet.")
		return
	}

	for i := range docs {
		d := docs[i]
		cmd.Printf("  %-32s %-6s %-10s %4d chunks  %s\n",
			truncate(d.FileName, 32), d.Type, d.Status, d.NumChunks, d.Timestamp.Local().Format(time.DateTime))
	}
}
