// Package slicer splits oversized text into paragraph-bounded slices.
package slicer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
)

// Ensure Slicer implements the interface.
var _ driven.Slicer = (*Slicer)(nil)

// DefaultMaxSize is the default number of characters per slice.
const DefaultMaxSize = domain.DefaultMaxSliceSize

// Boundary patterns between units. A paragraph boundary is a run of blank
// lines, which may hold spaces or tabs and end in CRLF.
const (
	ParagraphBoundary = `\r?\n(?:[ \t]*\r?\n)+`
	LineBoundary      = `\r?\n`
)

var paragraphBoundary = regexp.MustCompile(ParagraphBoundary)

// Slicer greedily packs consecutive units (paragraphs by default) into
// slices of at most maxSize characters. A unit longer than maxSize becomes
// a slice of its own; units are never cut.
type Slicer struct {
	name     string
	maxSize  int
	boundary *regexp.Regexp
}

// Option configures the slicer.
type Option func(*Slicer)

// WithMaxSize sets the slice size in characters.
func WithMaxSize(size int) Option {
	return func(s *Slicer) {
		if size > 0 {
			s.maxSize = size
		}
	}
}

// WithBoundary sets the pattern separating units. Empty or invalid
// patterns keep the paragraph boundary.
func WithBoundary(pattern string) Option {
	return func(s *Slicer) {
		if pattern == "" {
			return
		}
		if re, err := regexp.Compile(pattern); err == nil {
			s.boundary = re
		}
	}
}

// WithName sets the name reported by Name.
func WithName(name string) Option {
	return func(s *Slicer) {
		if name != "" {
			s.name = name
		}
	}
}

// New creates a new slicer with the given options.
func New(opts ...Option) *Slicer {
	s := &Slicer{
		name:     "paragraph",
		maxSize:  DefaultMaxSize,
		boundary: paragraphBoundary,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the slicer name.
func (s *Slicer) Name() string {
	return s.name
}

// MaxSize returns the slice size limit in characters.
func (s *Slicer) MaxSize() int {
	return s.maxSize
}

// Boundary returns the unit boundary pattern.
func (s *Slicer) Boundary() string {
	return s.boundary.String()
}

// Split returns the ordered slices of text. The boundary at each cut stays
// at the end of the slice before it, so strings.Join(Split(text), "") == text.
// The limit applies to a slice without its leading or trailing boundaries,
// and no slice holds boundaries alone.
func (s *Slicer) Split(text string) []string {
	if utf8.RuneCountInString(text) <= s.maxSize {
		return []string{text}
	}

	locs := s.boundary.FindAllStringIndex(text, -1)
	out := make([]string, 0, len(locs)+1)

	var current strings.Builder
	currentLen := 0
	hasContent := false
	prev := 0
	for i := 0; i <= len(locs); i++ {
		end := len(text)
		if i < len(locs) {
			end = locs[i][0]
		}
		unit := text[prev:end]
		unitLen := utf8.RuneCountInString(unit)

		if i > 0 {
			sep := text[locs[i-1][0]:locs[i-1][1]]
			sepLen := utf8.RuneCountInString(sep)
			current.WriteString(sep)
			if hasContent && unitLen > 0 && currentLen+sepLen+unitLen > s.maxSize {
				out = append(out, current.String())
				current.Reset()
				currentLen = 0
			} else {
				currentLen += sepLen
			}
		}
		current.WriteString(unit)
		currentLen += unitLen
		hasContent = hasContent || unitLen > 0

		if i < len(locs) {
			prev = locs[i][1]
		}
	}
	return append(out, current.String())
}
