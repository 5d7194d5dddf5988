package driving

import "github.com/custodia-labs/datacrafter/internal/core/domain"

// DashboardService owns the durable dashboard configuration.
type DashboardService interface {
	// Load returns the current configuration, initialising defaults on first use.
	Load() domain.DashboardConfig

	// Reset overwrites the configuration with defaults.
	Reset() domain.DashboardConfig

	// UpdateHeaders applies a partial update to the headers.
	UpdateHeaders(update domain.HeadersUpdate) domain.DashboardConfig

	// AddNotification stamps and prepends a notification, keeping the newest 20.
	AddNotification(n domain.Notification) domain.Notification

	// SetSystemStatus records the current system status.
	SetSystemStatus(status, message string) domain.SystemStatus
}
