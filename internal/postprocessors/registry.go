package postprocessors

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
)

// BuilderFunc creates a Slicer from loosely typed settings.
type BuilderFunc func(cfg map[string]any) (driven.Slicer, error)

// Registry maps slicer names to builders so the strategy can be chosen
// from configuration.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]BuilderFunc)}
}

// Register adds a builder. Registering a name twice replaces the builder.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates the named slicer.
func (r *Registry) Build(name string, cfg map[string]any) (driven.Slicer, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown slicer %q", domain.ErrInvalidInput, name)
	}
	s, err := builder(cfg)
	if err != nil {
		return nil, fmt.Errorf("slicer %s: %w", name, err)
	}
	return s, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// intOption reads key from cfg. Values decoded from TOML, JSON or the
// environment arrive as int, int64, float64 or string. A missing key
// returns 0.
func intOption(cfg map[string]any, key string) (int, error) {
	val, ok := cfg[key]
	if !ok {
		return 0, nil
	}

	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%w: %s must be a whole number, got %v", domain.ErrInvalidInput, key, v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s has unsupported type %T", domain.ErrInvalidInput, key, val)
	}
}
