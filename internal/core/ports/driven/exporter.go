package driven

import (
	"io"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
)

// Exporter renders an analysis result to a file format.
type Exporter interface {
	// Format returns the format name (e.g. "json", "pdf").
	Format() string

	// Extension returns the file extension including the dot.
	Extension() string

	// ContentType returns the MIME type of the output.
	ContentType() string

	// Export writes result to w.
	Export(w io.Writer, result domain.AnalysisResult) error
}
