// Package databases provides vector database providers behind a common
// interface. Two backends are supported: embedded chromem (file persisted,
// zero external services) and qdrant.
package databases

import (
	"context"
	"fmt"

	"github.com/prepgraph/prepgraph/pkg/config"
	"github.com/prepgraph/prepgraph/pkg/registry"
)

// DatabaseProvider is the capability boundary for vector storage and
// similarity search.
type DatabaseProvider interface {
	Upsert(ctx context.Context, collection string, id string, vector []float32, metadata map[string]interface{}) error

	Search(ctx context.Context, collection string, vector []float32, topK int) ([]SearchResult, error)

	SearchWithFilter(ctx context.Context, collection string, vector []float32, topK int, filter map[string]interface{}) ([]SearchResult, error)

	CreateCollection(ctx context.Context, collection string, vectorSize uint64) error

	Close() error
}

// SearchResult is one ranked similarity hit.
type SearchResult struct {
	ID       string                 `json:"id"`
	Score    float32                `json:"score"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata"`
}

// DatabaseRegistry holds named database providers.
type DatabaseRegistry struct {
	*registry.BaseRegistry[DatabaseProvider]
}

func NewDatabaseRegistry() *DatabaseRegistry {
	return &DatabaseRegistry{
		BaseRegistry: registry.NewBaseRegistry[DatabaseProvider](),
	}
}

// CreateFromConfig builds a provider from config and registers it under name.
func (r *DatabaseRegistry) CreateFromConfig(name string, cfg *config.VectorStoreConfig) (DatabaseProvider, error) {
	if name == "" {
		return nil, fmt.Errorf("database name cannot be empty")
	}
	if cfg == nil {
		return nil, fmt.Errorf("database config cannot be nil")
	}

	var provider DatabaseProvider
	var err error

	switch cfg.Provider {
	case config.VectorStoreChromem:
		provider, err = NewChromemProviderFromConfig(cfg)
	case config.VectorStoreQdrant:
		provider, err = NewQdrantProviderFromConfig(cfg)
	default:
		return nil, fmt.Errorf("unsupported vector store type: %s (supported: chromem, qdrant)", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create database provider: %w", err)
	}

	if err := r.Register(name, provider); err != nil {
		return nil, err
	}
	return provider, nil
}
