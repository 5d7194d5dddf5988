package tui

import "errors"

// ErrMissingMetricsService is returned when the metrics service is not provided.
var ErrMissingMetricsService = errors.New("tui: metrics service is required")

// ErrMissingDashboardService is returned when the dashboard service is not provided.
var ErrMissingDashboardService = errors.New("tui: dashboard service is required")
