package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
	"github.com/custodia-labs/datacrafter/internal/postprocessors/slicer"
)

// Built-in slicer names.
const (
	SlicerParagraph = "paragraph"
	SlicerLine      = "line"
)

// RegisterDefaults registers the built-in slicers.
func RegisterDefaults(r *Registry) {
	r.Register(SlicerParagraph, separatorSlicer(SlicerParagraph, slicer.ParagraphBoundary))
	r.Register(SlicerLine, separatorSlicer(SlicerLine, slicer.LineBoundary))
}

// separatorSlicer builds a slicer cutting on boundary. It reads one key,
// max_size, the characters per slice; zero keeps the slicer default.
func separatorSlicer(name, boundary string) BuilderFunc {
	return func(cfg map[string]any) (driven.Slicer, error) {
		size, err := intOption(cfg, "max_size")
		if err != nil {
			return nil, err
		}
		if size < 0 {
			return nil, fmt.Errorf("%w: max_size must not be negative", domain.ErrInvalidInput)
		}

		opts := []slicer.Option{slicer.WithName(name), slicer.WithBoundary(boundary)}
		if size > 0 {
			opts = append(opts, slicer.WithMaxSize(size))
		}
		return slicer.New(opts...), nil
	}
}
