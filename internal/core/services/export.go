package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
)

// Ensure ExportService implements the interface.
var _ driving.ExportService = (*ExportService)(nil)

// ExportService renders analysis results through the registered exporters.
type ExportService struct {
	exporters map[string]driven.Exporter
	formats   []string
}

// NewExportService creates an export service. Later exporters replace
// earlier ones registered for the same format.
func NewExportService(exporters ...driven.Exporter) *ExportService {
	s := &ExportService{exporters: make(map[string]driven.Exporter, len(exporters))}
	for _, e := range exporters {
		if e == nil {
			continue
		}
		format := strings.ToLower(e.Format())
		if _, exists := s.exporters[format]; !exists {
			s.formats = append(s.formats, format)
		}
		s.exporters[format] = e
	}
	return s
}

// Formats lists the registered formats in registration order.
func (s *ExportService) Formats() []string {
	out := make([]string, len(s.formats))
	copy(out, s.formats)
	return out
}

// Render writes result to w in the named format.
func (s *ExportService) Render(format string, result domain.AnalysisResult, w io.Writer) error {
	e, err := s.lookup(format)
	if err != nil {
		return err
	}
	if err := e.Export(w, result); err != nil {
		return fmt.Errorf("export %s: %w", e.Format(), err)
	}
	return nil
}

// Extension returns the file extension of a format.
func (s *ExportService) Extension(format string) (string, error) {
	e, err := s.lookup(format)
	if err != nil {
		return "", err
	}
	return e.Extension(), nil
}

// ContentType returns the MIME type of a format.
func (s *ExportService) ContentType(format string) (string, error) {
	e, err := s.lookup(format)
	if err != nil {
		return "", err
	}
	return e.ContentType(), nil
}

func (s *ExportService) lookup(format string) (driven.Exporter, error) {
	e, ok := s.exporters[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("%w: export format %q (available: %s)",
			domain.ErrUnsupportedType, format, strings.Join(s.formats, ", "))
	}
	return e, nil
}
