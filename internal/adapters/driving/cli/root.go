// Package cli provides the datacrafter command line interface.
package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
	"github.com/custodia-labs/datacrafter/internal/logger"
)

// version is set at build time.
var version = "dev"

// Services used by the commands. Nil services make their commands fail
// with a "not configured" error.
var (
	settingsService   driving.SettingsService
	metricsService    driving.MetricsService
	dashboardService  driving.DashboardService
	persistence       driving.PersistenceGateway
	analysisService   driving.AnalysisService
	operationsService driving.OperationsService
	exportService     driving.ExportService

	validateLLM    func(*domain.LLMSettings) error
	metricsHandler http.Handler
)

// Services groups everything the commands need from the composition root.
type Services struct {
	Settings    driving.SettingsService
	Metrics     driving.MetricsService
	Dashboard   driving.DashboardService
	Persistence driving.PersistenceGateway
	Analysis    driving.AnalysisService
	Operations  driving.OperationsService
	Export      driving.ExportService

	// ValidateLLM checks a provider configuration before it is reported as working.
	ValidateLLM func(*domain.LLMSettings) error

	// MetricsHandler serves the Prometheus exposition from the REST proxy.
	MetricsHandler http.Handler
}

// SetServices wires the services used by the commands.
func SetServices(s *Services) {
	settingsService = s.Settings
	metricsService = s.Metrics
	dashboardService = s.Dashboard
	persistence = s.Persistence
	analysisService = s.Analysis
	operationsService = s.Operations
	exportService = s.Export
	validateLLM = s.ValidateLLM
	metricsHandler = s.MetricsHandler
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "datacrafter",
	Short: "Extract structured knowledge from documents",
	Long: `DataCrafter turns PDFs, images and text into structured elements
using Azure Document Intelligence and an OpenAI compatible model, and keeps
running metrics and a dashboard of everything it has processed.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
