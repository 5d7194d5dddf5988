package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
}

func TestEnvOverrides(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want map[string]string
	}{
		{
			name: "empty environment",
			env:  map[string]string{},
			want: map[string]string{},
		},
		{
			name: "azure variables select azure",
			env: map[string]string{
				"AZURE_OPENAI_ENDPOINT":   "https://x.openai.azure.com",
				"AZURE_OPENAI_KEY":        "k",
				"AZURE_OPENAI_DEPLOYMENT": "gpt-4o",
			},
			want: map[string]string{
				"llm.provider": "azure",
				"llm.endpoint": "https://x.openai.azure.com",
				"llm.api_key":  "k",
				"llm.model":    "gpt-4o",
			},
		},
		{
			name: "explicit provider wins",
			env: map[string]string{
				"DATACRAFTER_LLM_PROVIDER": "ollama",
				"AZURE_OPENAI_ENDPOINT":    "http://gpu:11434",
			},
			want: map[string]string{
				"llm.provider": "ollama",
				"llm.endpoint": "http://gpu:11434",
			},
		},
		{
			name: "first variable wins over legacy alias",
			env: map[string]string{
				"AZURE_DI_ENDPOINT": "https://new",
				"AZ_ENDPOINT":       "https://old",
				"AZ_KEY":            "legacy",
			},
			want: map[string]string{
				"document_intelligence.endpoint": "https://new",
				"document_intelligence.api_key":  "legacy",
			},
		},
		{
			name: "empty values are ignored",
			env: map[string]string{
				"DATACRAFTER_STORAGE": "",
				"MINIO_BUCKET":        "uploads",
				"MINIO_USE_SSL":       "true",
			},
			want: map[string]string{
				"blob.bucket":  "uploads",
				"blob.use_ssl": "true",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, envOverrides(lookupFrom(tt.env)))
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("DATACRAFTER_TEST_DOTENV=loaded\n"), 0600))
	t.Setenv("DATACRAFTER_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("DATACRAFTER_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "loaded", os.Getenv("DATACRAFTER_TEST_DOTENV"))
}

func TestLoadDotEnv_DoesNotReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DATACRAFTER_TEST_KEEP=file\n"), 0600))
	t.Setenv("DATACRAFTER_TEST_KEEP", "shell")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "shell", os.Getenv("DATACRAFTER_TEST_KEEP"))
}
