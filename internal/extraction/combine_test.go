package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombine_PreservesSliceOrder(t *testing.T) {
	raws := []string{
		`[{"titulo":"A","categoria":"x"}]`,
		`nothing here`,
		`[{"titulo":"B","categoria":"y"},{"titulo":"C","categoria":"x"}]`,
	}
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	result := CombineAt(raws, "doc.txt", 3, at)

	require.Len(t, result.Elements, 3)
	assert.Equal(t, "A", result.Elements[0].Title)
	assert.Equal(t, "B", result.Elements[1].Title)
	assert.Equal(t, "C", result.Elements[2].Title)
	assert.Equal(t, 3, result.ChunkCount)
	assert.Equal(t, "doc.txt", result.SourceName)
	assert.Equal(t, at, result.GeneratedAt)
	assert.Equal(t, []string{"x", "y"}, result.Categories())
}

func TestCombine_FailedSlicesContributeNothing(t *testing.T) {
	result := Combine([]string{"", `[{"chunks_generados":2}]`, "[broken"}, "text", 3)

	require.Len(t, result.Elements, 1)
	assert.Equal(t, 2, result.TotalChunksGenerated())
	assert.Empty(t, result.Categories())
	assert.False(t, result.GeneratedAt.IsZero())
}

func TestCombine_NoResponses(t *testing.T) {
	result := Combine(nil, "empty", 0)

	assert.NotNil(t, result.Elements)
	assert.True(t, result.IsEmpty())
}
