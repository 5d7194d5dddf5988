// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/datacrafter/internal/adapters/driven/docintel/azure"
	openaillm "github.com/custodia-labs/datacrafter/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// DefaultOllamaURL is the local Ollama server used when no endpoint is set.
const DefaultOllamaURL = "http://localhost:11434"

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	LLMService           driven.LLMService
	DocumentIntelligence driven.DocumentIntelligence
	Warnings             []string // Non-fatal issues that left a service disabled.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise creates every configured AI service. A service that cannot be
// created or reached is left nil and reported as a warning so the rest of
// the application keeps working.
func Initialise(settings *domain.Settings, validate bool) *InitResult {
	result := &InitResult{}
	if settings == nil {
		return result
	}

	create := CreateLLMService
	if validate {
		create = CreateAndValidateLLMService
	}
	llm, err := create(&settings.LLM)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	} else {
		result.LLMService = llm
	}

	docIntel, err := CreateDocumentIntelligence(&settings.DocumentIntelligence)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	} else if docIntel != nil {
		result.DocumentIntelligence = docIntel
	}

	return result
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'datacrafter settings llm' to fix",
			domain.ErrLLMUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'datacrafter settings llm' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// This is intended for use by 'settings llm' to validate credentials on configuration.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderAzureOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:     settings.APIKey,
			BaseURL:    settings.Endpoint,
			Model:      settings.Model,
			Azure:      true,
			APIVersion: settings.APIVersion,
		})

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.Endpoint,
			Model:   settings.Model,
		})

	case domain.AIProviderOllama:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:     settings.APIKey,
			BaseURL:    ollamaBaseURL(settings.Endpoint),
			Model:      settings.Model,
			AllowNoKey: true,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateDocumentIntelligence creates the Azure Document Intelligence client.
// Returns nil if the service is not configured.
func CreateDocumentIntelligence(settings *domain.DocumentIntelligenceSettings) (driven.DocumentIntelligence, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	client, err := azure.New(azure.Config{
		Endpoint: settings.Endpoint,
		APIKey:   settings.APIKey,
		ModelID:  settings.ModelID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDocumentIntelligenceUnavailable, err)
	}
	return client, nil
}

// ollamaBaseURL points at Ollama's OpenAI compatible API.
func ollamaBaseURL(endpoint string) string {
	if endpoint == "" {
		endpoint = DefaultOllamaURL
	}
	endpoint = strings.TrimRight(endpoint, "/")
	if !strings.HasSuffix(endpoint, "/v1") {
		endpoint += "/v1"
	}
	return endpoint
}
