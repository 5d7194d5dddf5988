package export

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
)

var (
	_ driven.Exporter = (*JSON)(nil)
	_ driven.Exporter = (*YAML)(nil)
)

// document is the exported shape shared by the JSON and YAML exporters.
// Element fields keep the wire names the analysis service emits.
type document struct {
	SourceName  string           `json:"source_name" yaml:"source_name"`
	GeneratedAt string           `json:"generated_at" yaml:"generated_at"`
	ChunkCount  int              `json:"chunk_count" yaml:"chunk_count"`
	Categories  []string         `json:"categories" yaml:"categories"`
	Elements    []domain.Element `json:"elements" yaml:"-"`
	YAMLElems   []yamlElement    `json:"-" yaml:"elements"`
}

type yamlElement struct {
	Title            string   `yaml:"titulo"`
	Content          string   `yaml:"contenido"`
	Category         string   `yaml:"categoria"`
	SourceFileType   string   `yaml:"tipo_archivo,omitempty"`
	ChunksGenerated  int      `yaml:"chunks_generados"`
	Keywords         []string `yaml:"palabras_clave"`
	DocumentPosition int      `yaml:"posicion_documento"`
	DetailLevel      string   `yaml:"nivel_detalle,omitempty"`
}

func newDocument(result domain.AnalysisResult) document {
	elements := result.Elements
	if elements == nil {
		elements = []domain.Element{}
	}
	return document{
		SourceName:  result.SourceName,
		GeneratedAt: timestamp(result),
		ChunkCount:  result.ChunkCount,
		Categories:  result.Categories(),
		Elements:    elements,
	}
}

// JSON exports results as indented JSON.
type JSON struct{}

// NewJSON creates a JSON exporter.
func NewJSON() *JSON { return &JSON{} }

// Format returns "json".
func (*JSON) Format() string { return "json" }

// Extension returns ".json".
func (*JSON) Extension() string { return ".json" }

// ContentType returns the JSON MIME type.
func (*JSON) ContentType() string { return "application/json" }

// Export writes result to w.
func (*JSON) Export(w io.Writer, result domain.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newDocument(result)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// YAML exports results as YAML.
type YAML struct{}

// NewYAML creates a YAML exporter.
func NewYAML() *YAML { return &YAML{} }

// Format returns "yaml".
func (*YAML) Format() string { return "yaml" }

// Extension returns ".yaml".
func (*YAML) Extension() string { return ".yaml" }

// ContentType returns the YAML MIME type.
func (*YAML) ContentType() string { return "application/yaml" }

// Export writes result to w.
func (*YAML) Export(w io.Writer, result domain.AnalysisResult) error {
	doc := newDocument(result)
	doc.YAMLElems = make([]yamlElement, len(doc.Elements))
	for i, e := range doc.Elements {
		doc.YAMLElems[i] = yamlElement{
			Title:            e.Title,
			Content:          e.Content,
			Category:         e.Category,
			SourceFileType:   e.SourceFileType,
			ChunksGenerated:  e.ChunksGenerated,
			Keywords:         e.Keywords,
			DocumentPosition: e.DocumentPosition,
			DetailLevel:      string(e.DetailLevel),
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
