// Package domain defines the core business entities for DataCrafter.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Element: One structured fact extracted from a document by the AI service
//   - AnalysisResult: The ordered elements for one logical input
//   - DocumentRecord: One entry in the document history
//   - MetricsAggregate: Durable running totals and derived statistics
//   - DashboardConfig: Durable presentation configuration and notifications
//   - Snapshot: The backup format combining both durable aggregates
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
