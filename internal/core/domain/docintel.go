package domain

// DocumentAnalysis is what the document intelligence service reports about a file.
type DocumentAnalysis struct {
	// Content is the full extracted text.
	Content string `json:"content"`

	// Pages is the number of pages analysed.
	Pages int `json:"pages"`

	// Words is the number of words recognised.
	Words int `json:"words"`

	// Lines is the number of lines recognised.
	Lines int `json:"lines"`

	// AverageConfidence is the mean per-word confidence between 0 and 1.
	AverageConfidence float64 `json:"average_confidence"`

	// Languages are the detected locales.
	Languages []string `json:"languages"`

	// IsHandwritten is true if any handwritten style was detected.
	IsHandwritten bool `json:"is_handwritten"`
}
