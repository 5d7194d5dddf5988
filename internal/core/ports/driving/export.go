package driving

import (
	"io"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
)

// ExportService renders analysis results to downloadable files.
type ExportService interface {
	// Formats lists the supported format names.
	Formats() []string

	// Render writes result to w in the named format.
	Render(format string, result domain.AnalysisResult, w io.Writer) error

	// Extension returns the file extension of a format.
	Extension(format string) (string, error)

	// ContentType returns the MIME type of a format.
	ContentType(format string) (string, error)
}
