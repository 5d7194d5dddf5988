package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
)

var _ driven.Exporter = (*PDF)(nil)

// PDF exports a printable report.
type PDF struct {
	author string
}

// NewPDF creates a PDF exporter.
func NewPDF() *PDF { return &PDF{author: "DataCrafter"} }

// Format returns "pdf".
func (*PDF) Format() string { return "pdf" }

// Extension returns ".pdf".
func (*PDF) Extension() string { return ".pdf" }

// ContentType returns the PDF MIME type.
func (*PDF) ContentType() string { return "application/pdf" }

// Export writes result to w.
func (p *PDF) Export(w io.Writer, result domain.AnalysisResult) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; accented analysis text must be translated.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	title := strings.TrimSpace(result.SourceName)
	if title == "" {
		title = "Analysis"
	}
	pdf.SetTitle(title, true)
	pdf.SetAuthor(p.author, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	if ts := timestamp(result); ts != "" {
		pdf.Cell(0, 6, "Generated: "+ts)
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Slices: %d   Elements: %d", result.ChunkCount, len(result.Elements)))
	pdf.Ln(6)
	if categories := result.Categories(); len(categories) > 0 {
		pdf.MultiCell(0, 6, tr("Categories: "+strings.Join(categories, ", ")), "", "L", false)
	}
	pdf.Ln(4)

	if result.IsEmpty() {
		pdf.SetFont("Helvetica", "I", 12)
		pdf.Cell(0, 8, "No elements were extracted.")
	}

	for i, e := range result.Elements {
		writeElement(pdf, tr, i+1, e)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func writeElement(pdf *gofpdf.Fpdf, tr func(string) string, n int, e domain.Element) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.MultiCell(0, 7, tr(fmt.Sprintf("%d. %s", n, e.Title)), "", "L", false)

	pdf.SetFont("Helvetica", "I", 10)
	meta := "Category: " + e.Category
	if e.DetailLevel != "" {
		meta += "   Detail: " + string(e.DetailLevel)
	}
	pdf.MultiCell(0, 5, tr(meta), "", "L", false)
	if len(e.Keywords) > 0 {
		pdf.MultiCell(0, 5, tr("Keywords: "+strings.Join(e.Keywords, ", ")), "", "L", false)
	}

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range strings.Split(strings.TrimSpace(e.Content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
	pdf.Ln(4)
}

// All returns every exporter in the default registration order.
func All() []driven.Exporter {
	return []driven.Exporter{NewJSON(), NewYAML(), NewCSV(), NewText(), NewPDF()}
}
