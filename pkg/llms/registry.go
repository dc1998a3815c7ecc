package llms

import (
	"fmt"

	"github.com/prepgraph/prepgraph/pkg/config"
	"github.com/prepgraph/prepgraph/pkg/registry"
)

// LLMRegistry holds the named LLM providers built from configuration.
type LLMRegistry struct {
	*registry.BaseRegistry[LLMProvider]
}

func NewLLMRegistry() *LLMRegistry {
	return &LLMRegistry{
		BaseRegistry: registry.NewBaseRegistry[LLMProvider](),
	}
}

// CreateFromConfig builds a provider from config and registers it under name.
func (r *LLMRegistry) CreateFromConfig(name string, cfg *config.LLMConfig) (LLMProvider, error) {
	if name == "" {
		return nil, fmt.Errorf("LLM name cannot be empty")
	}
	if cfg == nil {
		return nil, fmt.Errorf("LLM config cannot be nil")
	}

	var provider LLMProvider
	var err error

	switch cfg.Provider {
	case config.LLMProviderOpenAI:
		provider, err = NewOpenAIProviderFromConfig(cfg)
	case config.LLMProviderOllama:
		provider, err = NewOllamaProviderFromConfig(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM type: %s (supported: openai, ollama)", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	if err := r.Register(name, provider); err != nil {
		return nil, err
	}
	return provider, nil
}

// Close closes all registered providers.
func (r *LLMRegistry) Close() error {
	var firstErr error
	for _, name := range r.Names() {
		if provider, ok := r.Get(name); ok {
			if err := provider.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
