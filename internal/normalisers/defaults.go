package normalisers

import (
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
	"github.com/custodia-labs/datacrafter/internal/normalisers/docx"
	"github.com/custodia-labs/datacrafter/internal/normalisers/eml"
	"github.com/custodia-labs/datacrafter/internal/normalisers/html"
)

// All returns the built-in extractors.
func All() []driven.TextExtractor {
	return []driven.TextExtractor{html.New(), eml.New(), docx.New()}
}

// Extensions returns every extension handled by extractors.
func Extensions(extractors ...driven.TextExtractor) []string {
	var out []string
	for _, e := range extractors {
		out = append(out, e.Extensions()...)
	}
	return out
}
