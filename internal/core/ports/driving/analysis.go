package driving

import (
	"context"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
)

// AnalyzeOptions configures one analysis run.
type AnalyzeOptions struct {
	// Prompt is extra instruction prepended to every slice.
	Prompt string

	// FileType is recorded on the elements when the model omits it.
	FileType string
}

// ChatReply is the answer to a chat message.
// Report is set when the message was long enough to be analysed as a document.
type ChatReply struct {
	Answer string                 `json:"answer"`
	Report *domain.AnalysisReport `json:"report,omitempty"`
}

// AnalysisService runs inputs through the AI services and folds the results
// into the metrics aggregate.
type AnalysisService interface {
	// AnalyzeText splits, submits, combines and ingests text.
	AnalyzeText(ctx context.Context, sourceName, text string, opts AnalyzeOptions) (*domain.AnalysisReport, error)

	// AnalyzeDocument analyses a file, extracting text from PDFs and images first.
	AnalyzeDocument(ctx context.Context, name string, data []byte, opts AnalyzeOptions) (*domain.AnalysisReport, error)

	// Inspect returns the raw document intelligence analysis of a file.
	Inspect(ctx context.Context, name string, data []byte) (*domain.DocumentAnalysis, error)

	// Chat answers a message, analysing long messages as documents.
	Chat(ctx context.Context, message string) (*ChatReply, error)
}
