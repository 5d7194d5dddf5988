package driven

import (
	"context"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
)

// DocumentIntelligence extracts text and layout statistics from PDFs and images.
type DocumentIntelligence interface {
	// Analyze submits the file and waits for the analysis to complete.
	Analyze(ctx context.Context, data []byte, contentType string) (*domain.DocumentAnalysis, error)
}
