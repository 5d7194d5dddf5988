package domain

// Placeholders applied to elements whose AI response omitted a field.
const (
	// UntitledElement is the title given to elements without one.
	UntitledElement = "Untitled"

	// UncategorisedElement is the category given to elements without one.
	// It is never reported as a detected category.
	UncategorisedElement = "N/A"
)

// DetailLevel describes how detailed an extracted element is.
type DetailLevel string

// Available detail levels.
const (
	DetailHigh   DetailLevel = "high"
	DetailMedium DetailLevel = "medium"
	DetailLow    DetailLevel = "low"
)

// IsValid returns true if the detail level is recognised.
func (d DetailLevel) IsValid() bool {
	switch d {
	case DetailHigh, DetailMedium, DetailLow:
		return true
	default:
		return false
	}
}

// ParseDetailLevel maps both the English and the Spanish wire values
// ("alto", "medio", "bajo") onto a DetailLevel.
// Unknown values return the empty level.
func ParseDetailLevel(s string) DetailLevel {
	switch s {
	case "high", "alto", "HIGH", "Alto", "High":
		return DetailHigh
	case "medium", "medio", "MEDIUM", "Medio", "Medium":
		return DetailMedium
	case "low", "bajo", "LOW", "Bajo", "Low":
		return DetailLow
	default:
		return ""
	}
}

// Element is one structured fact extracted from a document.
// Elements are immutable once parsed; they are only aggregated.
//
// The JSON field names are the ones the AI service is instructed to emit.
type Element struct {
	// Title is the heading of the extracted section or topic.
	Title string `json:"titulo"`

	// Content is the full text of the element.
	Content string `json:"contenido"`

	// Category is the thematic category assigned by the AI service.
	Category string `json:"categoria"`

	// SourceFileType is the type of the source document (e.g. "pdf", "txt").
	SourceFileType string `json:"tipo_archivo,omitempty"`

	// ChunksGenerated is how many retrieval chunks the element produced.
	ChunksGenerated int `json:"chunks_generados"`

	// Keywords are ordered by relevance.
	Keywords []string `json:"palabras_clave"`

	// DocumentPosition is the sequence index within the source document.
	DocumentPosition int `json:"posicion_documento"`

	// DetailLevel is how detailed the element is.
	DetailLevel DetailLevel `json:"nivel_detalle,omitempty"`
}

// WithDefaults returns a copy of the element with missing fields defaulted.
func (e Element) WithDefaults() Element {
	if e.Title == "" {
		e.Title = UntitledElement
	}
	if e.Category == "" {
		e.Category = UncategorisedElement
	}
	if e.ChunksGenerated < 0 {
		e.ChunksGenerated = 0
	}
	keywords := make([]string, len(e.Keywords))
	copy(keywords, e.Keywords)
	e.Keywords = keywords
	return e
}

// HasCategory reports whether the element carries a real category.
func (e Element) HasCategory() bool {
	return e.Category != "" && e.Category != UncategorisedElement
}
