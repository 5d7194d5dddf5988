// Package mcp provides an MCP (Model Context Protocol) server adapter for DataCrafter.
// It lets AI assistants run analyses and read the metrics and dashboard state.
package mcp

import "errors"

// ErrMissingMetricsService is returned when the metrics service is not provided.
var ErrMissingMetricsService = errors.New("mcp: metrics service is required")
