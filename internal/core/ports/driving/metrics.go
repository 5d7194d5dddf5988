package driving

import (
	"time"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
)

// MetricsService owns the durable metrics aggregate.
// Mutations update the in-memory state first and then persist it through
// the persistence gateway; persistence failures are logged, never returned.
type MetricsService interface {
	// Load returns the current aggregate, initialising defaults on first use.
	Load() domain.MetricsAggregate

	// Reset overwrites the aggregate with zeroed defaults.
	Reset() domain.MetricsAggregate

	// IncrementCounter adds delta to a named top-level counter.
	// Unknown names are ignored.
	IncrementCounter(name string, delta int)

	// RecordOutcome counts one external operation and whether it failed.
	RecordOutcome(success bool)

	// IngestDocument adds a record to the history and the recent list.
	IngestDocument(record domain.DocumentRecord) domain.DocumentRecord

	// IngestAnalysis folds an analysis into the aggregate.
	// An analysis without elements is a no-op.
	IngestAnalysis(result domain.AnalysisResult) domain.AnalysisSummary

	// RecordQuery counts a processed query.
	RecordQuery()

	// RecordUpload counts an upload for today.
	RecordUpload()

	// RecordProcessingTime adds the duration of one processed operation.
	RecordProcessingTime(d time.Duration)

	// RecordUptime stores the current system uptime.
	RecordUptime(d time.Duration)

	// Analytics returns the display form of the aggregate.
	Analytics() domain.AnalyticsView

	// RecentDocuments returns the recent list, most recent first.
	RecentDocuments() []domain.DocumentRecord

	// History returns the full document history, oldest first.
	History() []domain.DocumentRecord
}
