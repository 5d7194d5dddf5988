package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// PromptFile loads the analysis system prompt from a user-editable file.
//
// The file is created lazily with the fallback content on the first Load,
// not in the constructor.
type PromptFile struct {
	mu       sync.Mutex
	path     string
	fallback string
	cached   string
	loaded   bool
}

// NewPromptFile creates a prompt file at path.
// If path is empty, defaults to ~/.datacrafter/prompts/system.txt.
func NewPromptFile(path, fallback string) (*PromptFile, error) {
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		path = filepath.Join(dir, "prompts", "system.txt")
	}
	return &PromptFile{path: path, fallback: fallback}, nil
}

// Load returns the prompt, writing the fallback to disk if the file does
// not exist yet. Any I/O failure yields the fallback.
func (p *PromptFile) Load() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		return p.cached
	}

	p.cached = p.fallback
	data, err := os.ReadFile(p.path)
	switch {
	case err == nil:
		if content := strings.TrimSpace(string(data)); content != "" {
			p.cached = content
		}
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(filepath.Dir(p.path), 0700); mkErr == nil {
			_ = os.WriteFile(p.path, []byte(p.fallback), 0600)
		}
	}
	p.loaded = true
	return p.cached
}

// Reload clears the cached prompt, forcing a fresh read from disk.
func (p *PromptFile) Reload() {
	p.mu.Lock()
	p.loaded = false
	p.mu.Unlock()
}

// Path returns the prompt file path.
func (p *PromptFile) Path() string {
	return p.path
}
