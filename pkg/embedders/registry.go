// Package embedders provides embedding providers for indexing and querying
// the vector store.
package embedders

import (
	"context"
	"fmt"

	"github.com/prepgraph/prepgraph/pkg/config"
	"github.com/prepgraph/prepgraph/pkg/registry"
)

// EmbedderProvider is the capability boundary for text embedding.
type EmbedderProvider interface {
	// Embed returns the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns embedding vectors for a batch of texts, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding dimension.
	Dimension() int

	GetModelName() string

	Close() error
}

// EmbedderRegistry holds named embedder providers.
type EmbedderRegistry struct {
	*registry.BaseRegistry[EmbedderProvider]
}

func NewEmbedderRegistry() *EmbedderRegistry {
	return &EmbedderRegistry{
		BaseRegistry: registry.NewBaseRegistry[EmbedderProvider](),
	}
}

// CreateFromConfig builds a provider from config and registers it under name.
func (r *EmbedderRegistry) CreateFromConfig(name string, cfg *config.EmbedderConfig) (EmbedderProvider, error) {
	if name == "" {
		return nil, fmt.Errorf("embedder name cannot be empty")
	}
	if cfg == nil {
		return nil, fmt.Errorf("embedder config cannot be nil")
	}

	var provider EmbedderProvider
	var err error

	switch cfg.Provider {
	case config.EmbedderProviderOpenAI:
		provider, err = NewOpenAIEmbedderFromConfig(cfg)
	default:
		return nil, fmt.Errorf("unsupported embedder type: %s (supported: openai)", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder provider: %w", err)
	}

	if err := r.Register(name, provider); err != nil {
		return nil, err
	}
	return provider, nil
}
