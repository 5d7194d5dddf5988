package driving

import "github.com/custodia-labs/datacrafter/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.Settings, error)

	// Set stores a single setting by key.
	Set(key, value string) error

	// SetLLMProvider configures the chat completion provider.
	SetLLMProvider(provider domain.AIProvider, endpoint, model, apiKey string) error

	// Validate checks that the current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// Keys lists the recognised setting keys.
	Keys() []string
}
