package file

import (
	"os"

	"github.com/joho/godotenv"
)

// envBinding maps a config key to the environment variables that override
// it. The first variable that is set wins.
type envBinding struct {
	key  string
	vars []string
}

var envBindings = []envBinding{
	{"llm.provider", []string{"DATACRAFTER_LLM_PROVIDER"}},
	{"llm.endpoint", []string{"AZURE_OPENAI_ENDPOINT", "AZ_GPT_OPENAI_ENDPOINT"}},
	{"llm.api_key", []string{"AZURE_OPENAI_KEY", "AZ_GPT_OPENAI_4_KEY"}},
	{"llm.model", []string{"AZURE_OPENAI_DEPLOYMENT", "AZ_GPT_DEPLOYMENT"}},
	{"llm.api_version", []string{"AZURE_OPENAI_API_VERSION", "AZ_OPENAI_API_VERSION"}},
	{"document_intelligence.endpoint", []string{"AZURE_DI_ENDPOINT", "AZ_ENDPOINT"}},
	{"document_intelligence.api_key", []string{"AZURE_DI_KEY", "AZ_KEY"}},
	{"document_intelligence.model_id", []string{"AZURE_DI_MODEL_ID", "AZ_OCR_MODEL_ID"}},
	{"storage.backend", []string{"DATACRAFTER_STORAGE"}},
	{"storage.data_dir", []string{"DATACRAFTER_DATA_DIR"}},
	{"storage.redis_addr", []string{"DATACRAFTER_REDIS_ADDR"}},
	{"storage.redis_password", []string{"DATACRAFTER_REDIS_PASSWORD"}},
	{"storage.redis_db", []string{"DATACRAFTER_REDIS_DB"}},
	{"blob.backend", []string{"DATACRAFTER_BLOB"}},
	{"blob.dir", []string{"DATACRAFTER_UPLOAD_DIR"}},
	{"blob.endpoint", []string{"MINIO_ENDPOINT"}},
	{"blob.access_key", []string{"MINIO_ACCESS_KEY"}},
	{"blob.secret_key", []string{"MINIO_SECRET_KEY"}},
	{"blob.bucket", []string{"MINIO_BUCKET"}},
	{"blob.use_ssl", []string{"MINIO_USE_SSL"}},
	{"server.address", []string{"DATACRAFTER_ADDR"}},
}

// LoadDotEnv loads the given .env files into the process environment
// (".env" in the working directory when none are given). Missing files are
// ignored and variables that are already set are never replaced.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return err
		}
	}
	return nil
}

// EnvOverrides collects config overrides from the environment.
// Setting any Azure OpenAI variable without DATACRAFTER_LLM_PROVIDER
// selects the azure provider.
func EnvOverrides() map[string]string {
	return envOverrides(os.LookupEnv)
}

func envOverrides(lookup func(string) (string, bool)) map[string]string {
	out := make(map[string]string)
	for _, b := range envBindings {
		for _, name := range b.vars {
			if v, ok := lookup(name); ok && v != "" {
				out[b.key] = v
				break
			}
		}
	}

	if _, ok := out["llm.provider"]; !ok {
		_, endpoint := out["llm.endpoint"]
		_, key := out["llm.api_key"]
		if endpoint || key {
			out["llm.provider"] = "azure"
		}
	}
	return out
}
