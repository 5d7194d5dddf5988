package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
)

func TestParse_ArrayInsideProse(t *testing.T) {
	outcome := Parse(`noise noise [{"categoria":"x"}] trailing`)

	require.True(t, outcome.Found())
	require.Len(t, outcome.Elements, 1)
	assert.Equal(t, "x", outcome.Elements[0].Category)
	assert.Equal(t, domain.UntitledElement, outcome.Elements[0].Title)
	assert.Equal(t, 0, outcome.Elements[0].ChunksGenerated)
	assert.NotNil(t, outcome.Elements[0].Keywords)
}

func TestParse_FullElement(t *testing.T) {
	raw := "Here is the result:\n```json\n[\n  {\n    \"titulo\": \"Intro\",\n    \"contenido\": \"Body\",\n" +
		"    \"categoria\": \"salud\",\n    \"tipo_archivo\": \"pdf\",\n    \"chunks_generados\": 3,\n" +
		"    \"palabras_clave\": [\"a\", \"b\", \"c\", \"d\", \"e\"],\n    \"posicion_documento\": 2,\n" +
		"    \"nivel_detalle\": \"alto\"\n  }\n]\n```"

	outcome := Parse(raw)

	require.Equal(t, StatusFound, outcome.Status)
	require.Len(t, outcome.Elements, 1)
	assert.Equal(t, domain.Element{
		Title:            "Intro",
		Content:          "Body",
		Category:         "salud",
		SourceFileType:   "pdf",
		ChunksGenerated:  3,
		Keywords:         []string{"a", "b", "c", "d", "e"},
		DocumentPosition: 2,
		DetailLevel:      domain.DetailHigh,
	}, outcome.Elements[0])
}

func TestParse_EnglishAliasesAndStringNumbers(t *testing.T) {
	outcome := Parse(`[{"title":"T","content":"C","category":"k","chunks_generated":"4","keywords":"x, y","detail_level":"low"}]`)

	require.Len(t, outcome.Elements, 1)
	e := outcome.Elements[0]
	assert.Equal(t, "T", e.Title)
	assert.Equal(t, "k", e.Category)
	assert.Equal(t, 4, e.ChunksGenerated)
	assert.Equal(t, []string{"x", "y"}, e.Keywords)
	assert.Equal(t, domain.DetailLow, e.DetailLevel)
}

func TestParse_KeepsInvalidEntries(t *testing.T) {
	outcome := Parse(`[{"categoria":"a","chunks_generados":-2}, 42, "loose text", null, {}]`)

	require.Len(t, outcome.Elements, 5)
	assert.Equal(t, 0, outcome.Elements[0].ChunksGenerated)
	assert.Equal(t, domain.UncategorisedElement, outcome.Elements[1].Category)
	assert.Equal(t, "loose text", outcome.Elements[2].Content)
	assert.Equal(t, domain.UntitledElement, outcome.Elements[3].Title)
	assert.Equal(t, domain.UntitledElement, outcome.Elements[4].Title)
}

func TestParse_TerminalStates(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		status Status
	}{
		{"no array", "I could not find anything useful.", StatusNoArray},
		{"empty input", "", StatusNoArray},
		{"malformed json", "[{titulo: broken}]", StatusMalformed},
		{"not an array of values", "see [1] and [2]", StatusMalformed},
		{"empty array", "result: []", StatusEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Parse(tt.raw)
			assert.Equal(t, tt.status, outcome.Status)
			assert.NotNil(t, outcome.Elements)
			assert.Empty(t, outcome.Elements)
			assert.False(t, outcome.Found())
		})
	}
}

func TestNormalize(t *testing.T) {
	in := []domain.Element{{Content: "only content"}, {Category: "c", Title: "t"}}

	out := Normalize(in)

	require.Len(t, out, 2)
	assert.Equal(t, domain.UntitledElement, out[0].Title)
	assert.Equal(t, domain.UncategorisedElement, out[0].Category)
	assert.Equal(t, "t", out[1].Title)
	assert.Equal(t, "", in[0].Title)
}
