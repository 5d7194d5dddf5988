package extraction

import (
	"time"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
)

// Combine parses the raw response of every slice and concatenates the
// elements in slice order. A slice that yields nothing contributes nothing;
// duplicates across slices are kept.
func Combine(raws []string, sourceName string, sliceCount int) domain.AnalysisResult {
	return CombineAt(raws, sourceName, sliceCount, time.Now())
}

// CombineAt is Combine with an explicit generation time.
func CombineAt(raws []string, sourceName string, sliceCount int, at time.Time) domain.AnalysisResult {
	elements := make([]domain.Element, 0)
	for _, raw := range raws {
		outcome := Parse(raw)
		elements = append(elements, outcome.Elements...)
	}
	return domain.AnalysisResult{
		SourceName:  sourceName,
		Elements:    elements,
		ChunkCount:  sliceCount,
		GeneratedAt: at,
	}
}
