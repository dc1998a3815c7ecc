package config

import (
	"fmt"
	"os"
)

// VectorStoreProvider identifies the vector database backend.
type VectorStoreProvider string

const (
	// VectorStoreChromem is the embedded, file-persisted backend. It needs no
	// external services and is the default for local use.
	VectorStoreChromem VectorStoreProvider = "chromem"

	// VectorStoreQdrant is the external Qdrant backend.
	VectorStoreQdrant VectorStoreProvider = "qdrant"
)

// VectorStoreConfig configures the persistent store backend shared by the
// document chunk collection and the analysis artifact collection.
type VectorStoreConfig struct {
	Provider VectorStoreProvider `yaml:"provider,omitempty" mapstructure:"provider"`

	// Path is the persistence directory for the chromem backend.
	Path string `yaml:"path,omitempty" mapstructure:"path"`

	// Host and Port locate the qdrant backend.
	Host string `yaml:"host,omitempty" mapstructure:"host"`
	Port int    `yaml:"port,omitempty" mapstructure:"port"`

	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	EnableTLS bool   `yaml:"enable_tls,omitempty" mapstructure:"enable_tls"`

	// DocumentCollection holds raw extracted text chunks.
	DocumentCollection string `yaml:"document_collection,omitempty" mapstructure:"document_collection"`

	// AnalysisCollection holds agent analysis artifacts.
	AnalysisCollection string `yaml:"analysis_collection,omitempty" mapstructure:"analysis_collection"`
}

// SetDefaults applies default values.
func (c *VectorStoreConfig) SetDefaults() {
	if c.Provider == "" {
		c.Provider = VectorStoreChromem
	}
	if c.Path == "" {
		c.Path = "vector_store"
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 6334
	}
	if c.DocumentCollection == "" {
		c.DocumentCollection = "documents"
	}
	if c.AnalysisCollection == "" {
		c.AnalysisCollection = "analyses"
	}
}

// Validate checks the configuration.
func (c *VectorStoreConfig) Validate() error {
	switch c.Provider {
	case VectorStoreChromem, VectorStoreQdrant:
	default:
		return fmt.Errorf("unsupported vector store provider: %s (supported: chromem, qdrant)", c.Provider)
	}
	return nil
}

// EmbedderProvider identifies the embedding provider type.
type EmbedderProvider string

const (
	EmbedderProviderOpenAI EmbedderProvider = "openai"
)

// EmbedderConfig configures the embedding provider used for both indexing and
// query-time similarity search.
type EmbedderConfig struct {
	Provider  EmbedderProvider `yaml:"provider,omitempty" mapstructure:"provider"`
	Model     string           `yaml:"model,omitempty" mapstructure:"model"`
	APIKey    string           `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string           `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Dimension int              `yaml:"dimension,omitempty" mapstructure:"dimension"`
	BatchSize int              `yaml:"batch_size,omitempty" mapstructure:"batch_size"`
	Timeout   int              `yaml:"timeout,omitempty" mapstructure:"timeout"`
}

// SetDefaults applies default values.
func (c *EmbedderConfig) SetDefaults() {
	if c.Provider == "" {
		c.Provider = EmbedderProviderOpenAI
	}
	if c.Model == "" {
		c.Model = "text-embedding-3-small"
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Dimension == 0 {
		switch c.Model {
		case "text-embedding-3-large":
			c.Dimension = 3072
		default:
			c.Dimension = 1536
		}
	}
	if c.BatchSize == 0 {
		c.BatchSize = 100
	}
	if c.Timeout == 0 {
		c.Timeout = 30
	}
}

// Validate checks the configuration.
func (c *EmbedderConfig) Validate() error {
	if c.Provider != EmbedderProviderOpenAI {
		return fmt.Errorf("unsupported embedder provider: %s (supported: openai)", c.Provider)
	}
	return nil
}
