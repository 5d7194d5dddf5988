// Package export renders analysis results to files.
//
// Exporters:
//   - JSON: indented result document
//   - YAML: the same document in YAML
//   - CSV: one row per element
//   - Text: plain text report
//   - PDF: printable report built with gofpdf
package export
