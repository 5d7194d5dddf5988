package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDetailLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected DetailLevel
	}{
		{"alto", DetailHigh},
		{"medio", DetailMedium},
		{"bajo", DetailLow},
		{"high", DetailHigh},
		{"Medium", DetailMedium},
		{"LOW", DetailLow},
		{"extreme", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseDetailLevel(tt.input))
		})
	}
}

func TestElement_WithDefaults(t *testing.T) {
	e := Element{Content: "body", ChunksGenerated: -3}.WithDefaults()

	assert.Equal(t, UntitledElement, e.Title)
	assert.Equal(t, UncategorisedElement, e.Category)
	assert.Equal(t, 0, e.ChunksGenerated)
	assert.NotNil(t, e.Keywords)
	assert.Empty(t, e.Keywords)
	assert.False(t, e.HasCategory())
}

func TestElement_WithDefaultsDoesNotShareKeywords(t *testing.T) {
	original := Element{Category: "x", Keywords: []string{"a", "b"}}
	defaulted := original.WithDefaults()
	defaulted.Keywords[0] = "z"

	assert.Equal(t, "a", original.Keywords[0])
	assert.True(t, defaulted.HasCategory())
}
