package driven

import "time"

// OperationRecorder receives telemetry about pipeline activity.
type OperationRecorder interface {
	// RecordOperation records the outcome of one external operation
	// (kind is "upload", "query", "analysis" or "chat").
	RecordOperation(kind string, success bool, elapsed time.Duration)

	// RecordSlice records the outcome of one slice submission.
	RecordSlice(success bool)

	// RecordIngest records the size of an ingested analysis.
	RecordIngest(elements, chunks int)
}
