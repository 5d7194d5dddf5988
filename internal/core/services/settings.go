package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider   = "llm.provider"
	keyLLMEndpoint   = "llm.endpoint"
	keyLLMAPIKey     = "llm.api_key"
	keyLLMModel      = "llm.model"
	keyLLMAPIVersion = "llm.api_version"

	keyDIEndpoint = "document_intelligence.endpoint"
	keyDIAPIKey   = "document_intelligence.api_key"
	keyDIModelID  = "document_intelligence.model_id"

	keyStorageBackend = "storage.backend"
	keyStorageDataDir = "storage.data_dir"
	keyRedisAddr      = "storage.redis_addr"
	keyRedisPassword  = "storage.redis_password"
	keyRedisDB        = "storage.redis_db"
	keyStorageQuota   = "storage.quota_bytes"
	keyBlobBackend    = "blob.backend"
	keyBlobDir        = "blob.dir"
	keyBlobEndpoint   = "blob.endpoint"
	keyBlobAccessKey  = "blob.access_key"
	keyBlobSecretKey  = "blob.secret_key"
	keyBlobBucket     = "blob.bucket"
	keyBlobUseSSL     = "blob.use_ssl"
	keySlicer         = "analysis.slicer"
	keyMaxSliceSize   = "analysis.max_slice_size"
	keySliceInterval  = "analysis.slice_interval"
	keyLongTextLimit  = "analysis.long_text_threshold"
	keyServerAddress  = "server.address"
)

// settingKind is how a setting value is parsed by Set.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindBool
	kindDuration
)

var settingKinds = map[string]settingKind{
	keyLLMProvider:    kindString,
	keyLLMEndpoint:    kindString,
	keyLLMAPIKey:      kindString,
	keyLLMModel:       kindString,
	keyLLMAPIVersion:  kindString,
	keyDIEndpoint:     kindString,
	keyDIAPIKey:       kindString,
	keyDIModelID:      kindString,
	keyStorageBackend: kindString,
	keyStorageDataDir: kindString,
	keyRedisAddr:      kindString,
	keyRedisPassword:  kindString,
	keyRedisDB:        kindInt,
	keyStorageQuota:   kindInt,
	keyBlobBackend:    kindString,
	keyBlobDir:        kindString,
	keyBlobEndpoint:   kindString,
	keyBlobAccessKey:  kindString,
	keyBlobSecretKey:  kindString,
	keyBlobBucket:     kindString,
	keyBlobUseSSL:     kindBool,
	keySlicer:         kindString,
	keyMaxSliceSize:   kindInt,
	keySliceInterval:  kindDuration,
	keyLongTextLimit:  kindInt,
	keyServerAddress:  kindString,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or invalid values fall back to the defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	if s.configStore == nil {
		return nil, domain.ErrNotImplemented
	}
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		LLM: domain.LLMSettings{
			Provider:   s.getProvider(defaults.LLM.Provider),
			Endpoint:   s.configStore.GetString(keyLLMEndpoint),
			APIKey:     s.configStore.GetString(keyLLMAPIKey),
			Model:      s.configStore.GetString(keyLLMModel),
			APIVersion: s.getString(keyLLMAPIVersion, defaults.LLM.APIVersion),
		},
		DocumentIntelligence: domain.DocumentIntelligenceSettings{
			Endpoint: s.configStore.GetString(keyDIEndpoint),
			APIKey:   s.configStore.GetString(keyDIAPIKey),
			ModelID:  s.getString(keyDIModelID, defaults.DocumentIntelligence.ModelID),
		},
		Storage: domain.StorageSettings{
			Backend:       s.getStorageBackend(defaults.Storage.Backend),
			DataDir:       s.getString(keyStorageDataDir, defaults.Storage.DataDir),
			RedisAddr:     s.getString(keyRedisAddr, defaults.Storage.RedisAddr),
			RedisPassword: s.configStore.GetString(keyRedisPassword),
			RedisDB:       s.configStore.GetInt(keyRedisDB),
			QuotaBytes:    s.configStore.GetInt(keyStorageQuota),
		},
		Blob: domain.BlobSettings{
			Backend:   s.getBlobBackend(defaults.Blob.Backend),
			Dir:       s.getString(keyBlobDir, defaults.Blob.Dir),
			Endpoint:  s.configStore.GetString(keyBlobEndpoint),
			AccessKey: s.configStore.GetString(keyBlobAccessKey),
			SecretKey: s.configStore.GetString(keyBlobSecretKey),
			Bucket:    s.getString(keyBlobBucket, defaults.Blob.Bucket),
			UseSSL:    s.getBool(keyBlobUseSSL, defaults.Blob.UseSSL),
		},
		Analysis: domain.AnalysisSettings{
			Slicer:            s.getString(keySlicer, defaults.Analysis.Slicer),
			MaxSliceSize:      s.getInt(keyMaxSliceSize, defaults.Analysis.MaxSliceSize),
			SliceInterval:     s.getDuration(keySliceInterval, defaults.Analysis.SliceInterval),
			LongTextThreshold: s.getInt(keyLongTextLimit, defaults.Analysis.LongTextThreshold),
		},
		Server: domain.ServerSettings{
			Address: s.getString(keyServerAddress, defaults.Server.Address),
		},
	}

	if settings.LLM.Model == "" && settings.LLM.Provider.IsValid() {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}

	return settings, nil
}

// Set stores a single setting. The value is parsed according to the key.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var stored any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		stored = n
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		stored = b
	case kindDuration:
		d, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil || d < 0 {
			return fmt.Errorf("%w: %s must be a duration such as 1s", domain.ErrInvalidInput, key)
		}
		stored = d.String()
	default:
		if err := validateEnum(key, value); err != nil {
			return err
		}
		stored = value
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func validateEnum(key, value string) error {
	switch key {
	case keyLLMProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, value)
		}
	case keyStorageBackend:
		if !domain.StorageBackend(value).IsValid() {
			return fmt.Errorf("%w: invalid storage backend: %s", domain.ErrInvalidInput, value)
		}
	case keyBlobBackend:
		if !domain.BlobBackend(value).IsValid() {
			return fmt.Errorf("%w: invalid blob backend: %s", domain.ErrInvalidInput, value)
		}
	}
	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, endpoint, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}
	if provider.RequiresEndpoint() && endpoint == "" {
		return fmt.Errorf("endpoint required for %s", provider)
	}

	// Set model - use provided or default
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}

	// Local providers default to the standard Ollama address
	if provider == domain.AIProviderOllama && endpoint == "" {
		endpoint = "http://localhost:11434"
	}

	values := []struct {
		key   string
		value string
	}{
		{keyLLMProvider, provider.String()},
		{keyLLMEndpoint, endpoint},
		{keyLLMModel, model},
		{keyLLMAPIKey, apiKey},
	}
	for _, v := range values {
		if err := s.Set(v.key, v.value); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that the current settings are usable.
// An unset LLM provider is valid; analysis is then disabled.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.LLM.Provider != "" && !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %q is not fully configured", settings.LLM.Provider.Description())
	}

	if settings.Storage.Backend == domain.StorageRedis && settings.Storage.RedisAddr == "" {
		return fmt.Errorf("storage backend redis requires %s", keyRedisAddr)
	}

	if settings.Blob.Backend == domain.BlobMinIO {
		if settings.Blob.Endpoint == "" || settings.Blob.Bucket == "" {
			return fmt.Errorf("blob backend minio requires %s and %s", keyBlobEndpoint, keyBlobBucket)
		}
	}

	if settings.Analysis.MaxSliceSize <= 0 {
		return fmt.Errorf("%s must be positive", keyMaxSliceSize)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Keys lists the recognised setting keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	d := s.configStore.GetDuration(key)
	if d < 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(keyLLMProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getStorageBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(keyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getBlobBackend(defaultVal domain.BlobBackend) domain.BlobBackend {
	backend := domain.BlobBackend(s.configStore.GetString(keyBlobBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
