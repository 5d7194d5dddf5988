package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies a chat completion provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderAzureOpenAI is an Azure OpenAI deployment.
	AIProviderAzureOpenAI AIProvider = "azure"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOllama is a local Ollama instance using its OpenAI compatible API.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderAzureOpenAI, AIProviderOpenAI, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAzureOpenAI
}

// RequiresEndpoint returns true if this provider has no fixed endpoint.
func (p AIProvider) RequiresEndpoint() bool {
	return p == AIProviderAzureOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderAzureOpenAI:
		return "Azure OpenAI (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// AllLLMProviders returns the supported chat completion providers.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderAzureOpenAI,
		AIProviderOpenAI,
		AIProviderOllama,
	}
}

// DefaultLLMModels returns default models (or deployments) for each provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderAzureOpenAI: "gpt-4o",
		AIProviderOpenAI:      "gpt-4o-mini",
		AIProviderOllama:      "llama3.2",
	}
}

// DefaultAzureAPIVersion is the Azure OpenAI API version used when none is set.
const DefaultAzureAPIVersion = "2024-02-15-preview"

// LLMSettings holds chat completion provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Endpoint is the API base URL. Required for Azure.
	Endpoint string

	// APIKey is the API key.
	APIKey string

	// Model is the model name, or the deployment name for Azure.
	Model string

	// APIVersion is the Azure OpenAI API version.
	APIVersion string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	if l.Provider.RequiresEndpoint() && l.Endpoint == "" {
		return false
	}
	return true
}

// DefaultDocumentModel is the document intelligence model used when none is set.
const DefaultDocumentModel = "prebuilt-read"

// DocumentIntelligenceSettings holds Azure Document Intelligence configuration.
type DocumentIntelligenceSettings struct {
	Endpoint string
	APIKey   string

	// ModelID is the analysis model, prebuilt-read by default.
	ModelID string
}

// IsConfigured returns true if the service can be called.
func (d DocumentIntelligenceSettings) IsConfigured() bool {
	return d.Endpoint != "" && d.APIKey != ""
}

// StorageBackend selects the durable key-value store.
type StorageBackend string

// Available storage backends.
const (
	StorageSQLite StorageBackend = "sqlite"
	StorageRedis  StorageBackend = "redis"
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StorageRedis, StorageMemory:
		return true
	default:
		return false
	}
}

// StorageSettings holds durable storage configuration.
type StorageSettings struct {
	Backend StorageBackend

	// DataDir holds the sqlite database.
	DataDir string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// QuotaBytes bounds the memory and sqlite backends. Zero means unbounded.
	QuotaBytes int
}

// BlobBackend selects where uploaded files are stored.
type BlobBackend string

// Available blob backends.
const (
	BlobFilesystem BlobBackend = "filesystem"
	BlobMinIO      BlobBackend = "minio"
)

// IsValid returns true if the backend is recognised.
func (b BlobBackend) IsValid() bool {
	return b == BlobFilesystem || b == BlobMinIO
}

// BlobSettings holds upload storage configuration.
type BlobSettings struct {
	Backend BlobBackend

	// Dir is the upload directory for the filesystem backend.
	Dir string

	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AnalysisSettings tunes the analysis pipeline.
type AnalysisSettings struct {
	// Slicer names the strategy used to split text into slices.
	Slicer string

	// MaxSliceSize is the largest slice, in characters, sent in one request.
	MaxSliceSize int

	// SliceInterval is the minimum pause between slice submissions.
	SliceInterval time.Duration

	// LongTextThreshold is the chat message length above which the message
	// is analysed as a document.
	LongTextThreshold int
}

// ServerSettings holds the REST proxy configuration.
type ServerSettings struct {
	Address string
}

// Settings holds all application settings.
type Settings struct {
	LLM                  LLMSettings
	DocumentIntelligence DocumentIntelligenceSettings
	Storage              StorageSettings
	Blob                 BlobSettings
	Analysis             AnalysisSettings
	Server               ServerSettings
}

// Defaults for the analysis pipeline.
const (
	DefaultSlicer            = "paragraph"
	DefaultMaxSliceSize      = 12000
	DefaultSliceInterval     = time.Second
	DefaultLongTextThreshold = 1000
)

// DefaultSettings returns settings with sensible defaults.
// The LLM and document intelligence services are left unconfigured.
func DefaultSettings() Settings {
	return Settings{
		LLM: LLMSettings{
			APIVersion: DefaultAzureAPIVersion,
		},
		DocumentIntelligence: DocumentIntelligenceSettings{
			ModelID: DefaultDocumentModel,
		},
		Storage: StorageSettings{
			Backend:   StorageSQLite,
			RedisAddr: "localhost:6379",
		},
		Blob: BlobSettings{
			Backend: BlobFilesystem,
			Bucket:  "datacrafter",
		},
		Analysis: AnalysisSettings{
			Slicer:            DefaultSlicer,
			MaxSliceSize:      DefaultMaxSliceSize,
			SliceInterval:     DefaultSliceInterval,
			LongTextThreshold: DefaultLongTextThreshold,
		},
		Server: ServerSettings{
			Address: ":8080",
		},
	}
}
