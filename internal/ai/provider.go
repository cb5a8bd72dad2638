package ai

import (
	"context"
	"fmt"

	"email-agent/internal/config"
)

// Provider is one LLM backend. Implementations return the raw answer text
// and never interpret it.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewProvider builds the provider named in cfg. It returns (nil, nil) when
// no provider is configured, which callers treat as permanently unavailable.
func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	if !cfg.AIEnabled() {
		return nil, nil
	}
	switch cfg.AIProvider {
	case config.ProviderGemini:
		return NewGeminiProvider(ctx, cfg.AIKey, cfg.AIModel, cfg.AIBaseURL)
	case config.ProviderOpenAI:
		return NewOpenAIProvider(cfg.AIProvider, cfg.AIKey, cfg.AIModel, cfg.AIBaseURL), nil
	case config.ProviderDeepSeek:
		baseURL := cfg.AIBaseURL
		if baseURL == "" {
			baseURL = DeepSeekBaseURL
		}
		return NewOpenAIProvider(cfg.AIProvider, cfg.AIKey, cfg.AIModel, baseURL), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.AIProvider)
	}
}
