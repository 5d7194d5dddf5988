package driven

// Slicer splits text that is too large for one request into ordered slices.
// Concatenating the slices must reproduce the input.
type Slicer interface {
	// Name returns the slicer name for logging and configuration.
	Name() string

	// Split returns the ordered slices of text.
	Split(text string) []string
}
