package domain

import (
	"strings"
	"time"
)

// AnalysisResult is the combined, ordered set of elements for one logical input.
// It is produced by combining one or more raw AI responses.
type AnalysisResult struct {
	// SourceName is the file name or label of the analysed input.
	SourceName string `json:"source_name"`

	// Elements are ordered by slice, then by position within the slice.
	Elements []Element `json:"elements"`

	// ChunkCount is the number of input slices that were processed.
	ChunkCount int `json:"chunk_count"`

	// GeneratedAt is when the result was combined.
	GeneratedAt time.Time `json:"generated_at"`
}

// IsEmpty reports whether the analysis produced no elements.
func (r AnalysisResult) IsEmpty() bool {
	return len(r.Elements) == 0
}

// Categories returns the distinct real categories in first-seen order.
func (r AnalysisResult) Categories() []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for i := range r.Elements {
		if !r.Elements[i].HasCategory() {
			continue
		}
		c := r.Elements[i].Category
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	}
	return categories
}

// FileTypes returns the distinct non-empty source file types in first-seen order.
func (r AnalysisResult) FileTypes() []string {
	seen := make(map[string]struct{})
	types := make([]string, 0)
	for i := range r.Elements {
		t := strings.TrimSpace(r.Elements[i].SourceFileType)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		types = append(types, t)
	}
	return types
}

// TotalChunksGenerated sums the chunks generated by every element.
func (r AnalysisResult) TotalChunksGenerated() int {
	total := 0
	for i := range r.Elements {
		total += r.Elements[i].ChunksGenerated
	}
	return total
}

// AnalysisSummary is what ingesting an analysis reports back for display.
type AnalysisSummary struct {
	// NoOp is true when the analysis had no elements and nothing was ingested.
	NoOp bool `json:"no_op"`

	// ElementsCount is the number of elements in the analysis.
	ElementsCount int `json:"elements_count"`

	// TotalChunks is the sum of chunks generated by the elements.
	TotalChunks int `json:"total_chunks"`

	// Categories are the distinct categories detected.
	Categories []string `json:"categories"`

	// FileTypes are the distinct source file types detected.
	FileTypes []string `json:"file_types"`

	// Document is the history record created for the analysis.
	Document *DocumentRecord `json:"document,omitempty"`
}

// NoOpSummary is returned when an analysis without elements is ingested.
func NoOpSummary() AnalysisSummary {
	return AnalysisSummary{
		NoOp:       true,
		Categories: []string{},
		FileTypes:  []string{},
	}
}

// AnalysisReport is the outcome of running the full analysis pipeline on one input.
type AnalysisReport struct {
	// Result is the combined analysis.
	Result AnalysisResult `json:"result"`

	// Summary is what the metrics store reported after ingestion.
	Summary AnalysisSummary `json:"summary"`

	// SliceCount is the number of slices the input was split into.
	SliceCount int `json:"slice_count"`

	// FailedSlices lists the zero-based indices of slices whose submission failed.
	FailedSlices []int `json:"failed_slices,omitempty"`
}

// Partial reports whether some, but not all, slices failed.
func (r AnalysisReport) Partial() bool {
	return len(r.FailedSlices) > 0 && len(r.FailedSlices) < r.SliceCount
}
