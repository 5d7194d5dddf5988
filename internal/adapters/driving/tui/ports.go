// Package tui provides an interactive terminal dashboard for datacrafter.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Metrics provides the running totals and document history.
	Metrics driving.MetricsService

	// Dashboard provides headers, notifications and system status.
	Dashboard driving.DashboardService

	// Analysis answers chat messages. Optional; the chat view is read-only without it.
	Analysis driving.AnalysisService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Metrics == nil {
		return ErrMissingMetricsService
	}
	if p.Dashboard == nil {
		return ErrMissingDashboardService
	}
	return nil
}
