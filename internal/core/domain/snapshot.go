package domain

import (
	"encoding/json"
	"time"
)

// Snapshot is the backup format produced by export and accepted by import.
// Metrics and Dashboard hold the durable JSON of each store as-is.
type Snapshot struct {
	Metrics    json.RawMessage `json:"metrics,omitempty"`
	Dashboard  json.RawMessage `json:"dashboard,omitempty"`
	ExportedAt time.Time       `json:"exportedAt"`
}

// HasMetrics reports whether the snapshot carries a metrics section.
func (s Snapshot) HasMetrics() bool {
	return isPresent(s.Metrics)
}

// HasDashboard reports whether the snapshot carries a dashboard section.
func (s Snapshot) HasDashboard() bool {
	return isPresent(s.Dashboard)
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// OperationResult is the outcome of a routine user-triggered operation
// such as import, reset, clear or export.
type OperationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Succeeded returns a successful result.
func Succeeded(message string) OperationResult {
	return OperationResult{Success: true, Message: message}
}

// Failed returns a failed result.
func Failed(message string) OperationResult {
	return OperationResult{Success: false, Message: message}
}
