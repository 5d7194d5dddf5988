package mcp

import (
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Metrics provides the metrics aggregate.
	Metrics driving.MetricsService

	// Dashboard provides the dashboard configuration.
	Dashboard driving.DashboardService

	// Analysis runs text through the AI pipeline.
	Analysis driving.AnalysisService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Metrics == nil {
		return ErrMissingMetricsService
	}
	// Dashboard and Analysis are optional
	return nil
}
