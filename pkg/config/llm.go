package config

import (
	"fmt"
	"os"
)

// LLMProvider identifies the LLM provider type.
type LLMProvider string

const (
	LLMProviderOpenAI LLMProvider = "openai"
	LLMProviderOllama LLMProvider = "ollama"
)

// LLMConfig configures one named LLM provider. Agents reference providers by
// name, so different agents can run against different models.
type LLMConfig struct {
	// Provider type (openai, ollama).
	Provider LLMProvider `yaml:"provider,omitempty" mapstructure:"provider"`

	// Model name (e.g. "gpt-4.1", "llama3.1").
	Model string `yaml:"model,omitempty" mapstructure:"model"`

	// APIKey for authentication. Supports ${VAR} expansion.
	APIKey string `yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the default API endpoint. Gemini-family models are
	// reachable here through their OpenAI-compatible endpoint.
	BaseURL string `yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Temperature for generation.
	Temperature *float64 `yaml:"temperature,omitempty" mapstructure:"temperature"`

	// MaxTokens limits response length.
	MaxTokens int `yaml:"max_tokens,omitempty" mapstructure:"max_tokens"`

	// Timeout in seconds for a single request.
	Timeout int `yaml:"timeout,omitempty" mapstructure:"timeout"`

	// MaxRetries for retryable HTTP failures.
	MaxRetries int `yaml:"max_retries,omitempty" mapstructure:"max_retries"`
}

// SetDefaults applies default values.
func (c *LLMConfig) SetDefaults() {
	if c.Provider == "" {
		c.Provider = LLMProviderOpenAI
	}
	if c.Model == "" {
		switch c.Provider {
		case LLMProviderOpenAI:
			c.Model = "gpt-4.1"
		case LLMProviderOllama:
			c.Model = "llama3.1"
		}
	}
	if c.APIKey == "" && c.Provider == LLMProviderOpenAI {
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Temperature == nil {
		temp := 0.3
		c.Temperature = &temp
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 4096
	}
	if c.Timeout == 0 {
		c.Timeout = 120
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
}

// Validate checks the configuration.
func (c *LLMConfig) Validate() error {
	switch c.Provider {
	case LLMProviderOpenAI, LLMProviderOllama:
	default:
		return fmt.Errorf("unsupported llm provider: %s (supported: openai, ollama)", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	return nil
}
