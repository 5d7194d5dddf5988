package postprocessors

import (
	"errors"
	"strings"
	"testing"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
)

// registryMockSlicer is a simple mock for testing registry functionality.
type registryMockSlicer struct {
	name string
}

func (m *registryMockSlicer) Name() string               { return m.name }
func (m *registryMockSlicer) Split(text string) []string { return []string{text} }

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry returned nil")
	}
	if len(r.builders) != 0 {
		t.Errorf("expected empty builders, got %d", len(r.builders))
	}
}

func TestRegistry_Build_Success(t *testing.T) {
	r := NewRegistry()

	r.Register("test", func(cfg map[string]any) (driven.Slicer, error) {
		name := "default"
		if n, ok := cfg["name"].(string); ok {
			name = n
		}
		return &registryMockSlicer{name: name}, nil
	})

	s, err := r.Build("test", map[string]any{"name": "custom"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if s.Name() != "custom" {
		t.Errorf("expected name 'custom', got %q", s.Name())
	}
}

func TestRegistry_Build_UnknownSlicer(t *testing.T) {
	r := NewRegistry()

	_, err := r.Build("unknown", nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRegisterDefaults(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	names := r.Names()
	if len(names) != 2 || names[0] != SlicerLine || names[1] != SlicerParagraph {
		t.Fatalf("unexpected names: %v", names)
	}

	s, err := r.Build(SlicerParagraph, map[string]any{"max_size": int64(4)})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	slices := s.Split("aaa\n\nbbb")
	if len(slices) != 2 {
		t.Errorf("expected 2 slices, got %q", slices)
	}

	line, err := r.Build(SlicerLine, map[string]any{"max_size": float64(3)})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := strings.Join(line.Split("ab\ncd"), ""); got != "ab\ncd" {
		t.Errorf("rejoined text differs: %q", got)
	}
	if line.Name() != SlicerLine {
		t.Errorf("expected name %q, got %q", SlicerLine, line.Name())
	}
}

func TestRegisterDefaults_InvalidSize(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	for _, v := range []any{-1, "lots", 2.5, []int{1}} {
		_, err := r.Build(SlicerParagraph, map[string]any{"max_size": v})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("max_size %v: expected ErrInvalidInput, got %v", v, err)
		}
	}

	if _, err := r.Build(SlicerParagraph, nil); err != nil {
		t.Errorf("nil config: %v", err)
	}
}

func TestIntOption(t *testing.T) {
	cfg := map[string]any{"a": 1, "b": int64(2), "c": 3.0, "d": "4"}

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3, "d": 4, "missing": 0} {
		got, err := intOption(cfg, key)
		if err != nil || got != want {
			t.Errorf("intOption(%q) = %d, %v; want %d", key, got, err, want)
		}
	}
}
