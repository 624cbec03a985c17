package llm

import (
	"fmt"
	"log/slog"
)

type ProviderType string

const (
	ProviderOllama ProviderType = "ollama"
	ProviderOpenAI ProviderType = "openai"
)

type ProviderConfig struct {
	Type    ProviderType
	Model   string
	BaseURL string
	APIKey  string
}

func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderOllama:
		baseURL := config.BaseURL
		if baseURL == "" {
			baseURL = DefaultOllamaBaseURL
		}
		model := config.Model
		if model == "" {
			model = DefaultOllamaModel
		}
		slog.Debug("initializing ollama provider", "baseUrl", baseURL, "model", model)
		return NewOllamaProvider(baseURL, model), nil
	case ProviderOpenAI:
		if config.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key (llm.apiKey or OPENAI_API_KEY)")
		}
		model := config.Model
		if model == "" {
			model = DefaultOpenAIModel
		}
		slog.Debug("initializing openai provider", "baseUrl", config.BaseURL, "model", model)
		return NewOpenAIProvider(config.BaseURL, model, config.APIKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}
