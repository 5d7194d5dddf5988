package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptFile_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts", "system.txt")
	p, err := NewPromptFile(path, "default prompt")
	require.NoError(t, err)

	// No I/O before the first load
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t, "default prompt", p.Load())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "default prompt", string(data))
}

func TestPromptFile_CustomContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.txt")
	require.NoError(t, os.WriteFile(path, []byte("  custom\n"), 0600))

	p, err := NewPromptFile(path, "default")
	require.NoError(t, err)
	assert.Equal(t, "custom", p.Load())
	assert.Equal(t, path, p.Path())
}

func TestPromptFile_EmptyFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0600))

	p, err := NewPromptFile(path, "default")
	require.NoError(t, err)
	assert.Equal(t, "default", p.Load())
}

func TestPromptFile_CachesUntilReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.txt")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0600))

	p, err := NewPromptFile(path, "default")
	require.NoError(t, err)
	assert.Equal(t, "one", p.Load())

	require.NoError(t, os.WriteFile(path, []byte("two"), 0600))
	assert.Equal(t, "one", p.Load())

	p.Reload()
	assert.Equal(t, "two", p.Load())
}

func TestNewPromptFile_DefaultPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}
	p, err := NewPromptFile("", "x")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".datacrafter", "prompts", "system.txt"), p.Path())
}
