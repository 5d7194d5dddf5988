// Package docx extracts the paragraph text of Office Open XML documents.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
)

const (
	bodyPart = "word/document.xml"
	corePart = "docProps/core.xml"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the format name.
func (e *Extractor) Name() string { return "docx" }

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".docx"}
}

// Extract returns one line per paragraph of the document body, preceded by
// the title from the document properties when one is set.
func (e *Extractor) Extract(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: not a docx archive: %v", domain.ErrInvalidInput, err)
	}

	body, err := readPart(reader, bodyPart)
	if err != nil {
		return "", err
	}
	if body == nil {
		return "", fmt.Errorf("%w: %s missing", domain.ErrInvalidInput, bodyPart)
	}

	paragraphs, err := paragraphs(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	text := strings.Join(paragraphs, "\n")

	// A broken core part only costs the title.
	core, _ := readPart(reader, corePart)
	if title := documentTitle(core); title != "" {
		return strings.TrimSpace(title + "\n\n" + text), nil
	}
	return text, nil
}

// readPart returns the content of the named archive member, or nil when the
// archive has no such member.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, f := range reader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", domain.ErrInvalidInput, name, err)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", domain.ErrInvalidInput, name, err)
		}
		return content, nil
	}
	return nil, nil
}

// paragraphs walks the WordprocessingML body and returns the non-empty
// paragraphs. Tabs and breaks inside a run become whitespace.
func paragraphs(body []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var (
		out    []string
		cur    strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				cur.WriteByte('\t')
			case "br", "cr":
				cur.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if p := strings.TrimSpace(cur.String()); p != "" {
					out = append(out, p)
				}
				cur.Reset()
			}
		case xml.CharData:
			if inText {
				cur.Write(t)
			}
		}
	}
	return out, nil
}

type coreProperties struct {
	Title string `xml:"title"`
}

func documentTitle(core []byte) string {
	if len(core) == 0 {
		return ""
	}
	var props coreProperties
	if err := xml.Unmarshal(core, &props); err != nil {
		return ""
	}
	return strings.TrimSpace(props.Title)
}
