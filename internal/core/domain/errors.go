package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown file type or export format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Analysis, chat and query operations are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrDocumentIntelligenceUnavailable indicates the OCR/layout service is not configured.
	// PDFs and images cannot be analysed without it.
	ErrDocumentIntelligenceUnavailable = errors.New("document intelligence service unavailable")

	// ErrBlobStoreUnavailable indicates no blob store is configured for uploads.
	ErrBlobStoreUnavailable = errors.New("blob store unavailable")

	// Storage Errors.

	// ErrQuotaExceeded indicates durable storage refused a write because it is full.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrInvalidSnapshot indicates a backup file is not a usable snapshot.
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	// Analysis Errors.

	// ErrAnalysisFailed indicates every slice of an input failed to be analysed.
	ErrAnalysisFailed = errors.New("analysis failed")

	// ErrRateLimited indicates the upstream AI service rejected a request for rate reasons.
	ErrRateLimited = errors.New("rate limited")
)
