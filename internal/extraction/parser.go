// Package extraction turns raw AI responses into structured elements and
// combines the results of independently analysed slices.
package extraction

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
)

// Status tags the outcome of parsing one raw response.
type Status string

// Parse statuses. Only StatusFound carries elements; the others are
// valid terminal states, not failures.
const (
	// StatusFound means an array was found and yielded at least one element.
	StatusFound Status = "found"

	// StatusEmpty means an array was found but it had no entries.
	StatusEmpty Status = "empty"

	// StatusNoArray means the response contained no bracketed array.
	StatusNoArray Status = "no_array"

	// StatusMalformed means the bracketed text was not a JSON array.
	StatusMalformed Status = "malformed"
)

// Outcome is the tagged result of Parse.
type Outcome struct {
	Status   Status
	Elements []domain.Element
}

// Found reports whether the outcome carries elements.
func (o Outcome) Found() bool {
	return o.Status == StatusFound
}

// arrayPattern matches from the first '[' to the last ']' across newlines.
var arrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// field aliases, wire key first.
var (
	titleKeys    = []string{"titulo", "title"}
	contentKeys  = []string{"contenido", "content"}
	categoryKeys = []string{"categoria", "category"}
	fileTypeKeys = []string{"tipo_archivo", "source_file_type", "file_type", "sourceFileType"}
	chunksKeys   = []string{"chunks_generados", "chunks_generated", "chunksGenerated"}
	keywordKeys  = []string{"palabras_clave", "keywords"}
	positionKeys = []string{"posicion_documento", "document_position", "documentPosition"}
	detailKeys   = []string{"nivel_detalle", "detail_level", "detailLevel"}
)

// Parse extracts elements from a raw AI response that may wrap the JSON
// array in prose. Entries that are not well formed are kept with defaulted
// fields so the element count reflects what the model returned.
func Parse(raw string) Outcome {
	match := arrayPattern.FindString(raw)
	if match == "" {
		return Outcome{Status: StatusNoArray, Elements: []domain.Element{}}
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(match), &items); err != nil {
		return Outcome{Status: StatusMalformed, Elements: []domain.Element{}}
	}
	if len(items) == 0 {
		return Outcome{Status: StatusEmpty, Elements: []domain.Element{}}
	}

	elements := make([]domain.Element, 0, len(items))
	for _, item := range items {
		elements = append(elements, decodeItem(item))
	}
	return Outcome{Status: StatusFound, Elements: elements}
}

// Normalize applies the defaulting rules to elements that were already
// structured. The input is not modified.
func Normalize(elements []domain.Element) []domain.Element {
	out := make([]domain.Element, len(elements))
	for i := range elements {
		out[i] = elements[i].WithDefaults()
	}
	return out
}

func decodeItem(item json.RawMessage) domain.Element {
	var fields map[string]any
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		var text string
		if json.Unmarshal(item, &text) == nil {
			return domain.Element{Content: text}.WithDefaults()
		}
		return domain.Element{}.WithDefaults()
	}

	e := domain.Element{
		Title:            stringField(fields, titleKeys),
		Content:          stringField(fields, contentKeys),
		Category:         stringField(fields, categoryKeys),
		SourceFileType:   stringField(fields, fileTypeKeys),
		ChunksGenerated:  intField(fields, chunksKeys),
		Keywords:         keywordsField(fields, keywordKeys),
		DocumentPosition: intField(fields, positionKeys),
		DetailLevel:      domain.ParseDetailLevel(strings.TrimSpace(stringField(fields, detailKeys))),
	}
	return e.WithDefaults()
}

func lookup(fields map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := fields[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(fields map[string]any, keys []string) string {
	v, ok := lookup(fields, keys)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

func intField(fields map[string]any, keys []string) int {
	v, ok := lookup(fields, keys)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return int(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return int(f)
	default:
		return 0
	}
}

func keywordsField(fields map[string]any, keys []string) []string {
	v, ok := lookup(fields, keys)
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(list, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}
