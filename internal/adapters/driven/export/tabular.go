package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
)

var (
	_ driven.Exporter = (*CSV)(nil)
	_ driven.Exporter = (*Text)(nil)
)

// csvHeader lists the CSV columns in order.
var csvHeader = []string{
	"position", "title", "category", "detail_level", "file_type", "chunks", "keywords", "content",
}

func timestamp(result domain.AnalysisResult) string {
	if result.GeneratedAt.IsZero() {
		return ""
	}
	return result.GeneratedAt.UTC().Format(time.RFC3339)
}

// CSV exports one row per element.
type CSV struct{}

// NewCSV creates a CSV exporter.
func NewCSV() *CSV { return &CSV{} }

// Format returns "csv".
func (*CSV) Format() string { return "csv" }

// Extension returns ".csv".
func (*CSV) Extension() string { return ".csv" }

// ContentType returns the CSV MIME type.
func (*CSV) ContentType() string { return "text/csv" }

// Export writes result to w. Keywords are joined with "; ".
func (*CSV) Export(w io.Writer, result domain.AnalysisResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range result.Elements {
		row := []string{
			strconv.Itoa(e.DocumentPosition),
			e.Title,
			e.Category,
			string(e.DetailLevel),
			e.SourceFileType,
			strconv.Itoa(e.ChunksGenerated),
			strings.Join(e.Keywords, "; "),
			e.Content,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Text exports a plain text report.
type Text struct{}

// NewText creates a text exporter.
func NewText() *Text { return &Text{} }

// Format returns "text".
func (*Text) Format() string { return "text" }

// Extension returns ".txt".
func (*Text) Extension() string { return ".txt" }

// ContentType returns the plain text MIME type.
func (*Text) ContentType() string { return "text/plain; charset=utf-8" }

// Export writes result to w.
func (*Text) Export(w io.Writer, result domain.AnalysisResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Source: %s\n", result.SourceName)
	if ts := timestamp(result); ts != "" {
		fmt.Fprintf(&b, "Generated: %s\n", ts)
	}
	fmt.Fprintf(&b, "Slices: %d\nElements: %d\n", result.ChunkCount, len(result.Elements))
	if categories := result.Categories(); len(categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(categories, ", "))
	}

	for i, e := range result.Elements {
		fmt.Fprintf(&b, "\n%d. %s [%s]\n", i+1, e.Title, e.Category)
		if e.DetailLevel != "" {
			fmt.Fprintf(&b, "   Detail: %s\n", e.DetailLevel)
		}
		if len(e.Keywords) > 0 {
			fmt.Fprintf(&b, "   Keywords: %s\n", strings.Join(e.Keywords, ", "))
		}
		if content := strings.TrimSpace(e.Content); content != "" {
			for _, line := range strings.Split(content, "\n") {
				fmt.Fprintf(&b, "   %s\n", line)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
