package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisResult_Derived(t *testing.T) {
	r := AnalysisResult{
		Elements: []Element{
			{Category: "a", ChunksGenerated: 2, SourceFileType: "pdf"},
			{Category: "b", ChunksGenerated: 3, SourceFileType: "pdf"},
			{Category: "a", ChunksGenerated: 1},
			{Category: UncategorisedElement},
		},
	}

	assert.Equal(t, []string{"a", "b"}, r.Categories())
	assert.Equal(t, []string{"pdf"}, r.FileTypes())
	assert.Equal(t, 6, r.TotalChunksGenerated())
	assert.False(t, r.IsEmpty())
}

func TestAnalysisReport_Partial(t *testing.T) {
	assert.False(t, AnalysisReport{SliceCount: 2}.Partial())
	assert.True(t, AnalysisReport{SliceCount: 2, FailedSlices: []int{1}}.Partial())
	assert.False(t, AnalysisReport{SliceCount: 1, FailedSlices: []int{0}}.Partial())
}
