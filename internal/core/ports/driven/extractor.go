package driven

// TextExtractor converts a document format into plain text for analysis.
type TextExtractor interface {
	// Name returns the format name for logging.
	Name() string

	// Extensions lists the lower-case file extensions handled, with the dot.
	Extensions() []string

	// Extract returns the readable text of the document. When the document
	// carries a title it is returned on the first line.
	Extract(data []byte) (string, error)
}
