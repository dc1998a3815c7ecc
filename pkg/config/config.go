// Package config defines the prepgraph configuration model and loader.
//
// Configuration is a single YAML file. Values support ${ENV_VAR} expansion,
// defaults are applied after decoding, and the result is validated before use.
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Logger       LoggerConfig              `yaml:"logger,omitempty" mapstructure:"logger"`
	LLMs         map[string]LLMConfig      `yaml:"llms,omitempty" mapstructure:"llms"`
	Embedder     EmbedderConfig            `yaml:"embedder,omitempty" mapstructure:"embedder"`
	VectorStore  VectorStoreConfig         `yaml:"vector_store,omitempty" mapstructure:"vector_store"`
	Ingestion    IngestionConfig           `yaml:"ingestion,omitempty" mapstructure:"ingestion"`
	Orchestrator OrchestratorConfig        `yaml:"orchestrator,omitempty" mapstructure:"orchestrator"`
	Agents       map[string]AgentConfig    `yaml:"agents,omitempty" mapstructure:"agents"`
	QA           QAConfig                  `yaml:"qa,omitempty" mapstructure:"qa"`
	Server       ServerConfig              `yaml:"server,omitempty" mapstructure:"server"`
}

// LoadConfig reads, expands, decodes, defaults and validates a config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses configuration from raw YAML.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	expanded := expandEnvVars(rawMap)

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := decoder.Decode(expanded); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a ready-to-use config with all defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults applies default values to all sections.
func (c *Config) SetDefaults() {
	c.Logger.SetDefaults()
	if len(c.LLMs) == 0 {
		c.LLMs = map[string]LLMConfig{
			"default": {},
		}
	}
	for name, llm := range c.LLMs {
		llm.SetDefaults()
		c.LLMs[name] = llm
	}
	c.Embedder.SetDefaults()
	c.VectorStore.SetDefaults()
	c.Ingestion.SetDefaults()
	c.Orchestrator.SetDefaults()
	if c.Agents == nil {
		c.Agents = make(map[string]AgentConfig)
	}
	for name, agent := range c.Agents {
		agent.SetDefaults()
		c.Agents[name] = agent
	}
	c.QA.SetDefaults()
	c.Server.SetDefaults()
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	for name, llm := range c.LLMs {
		if err := llm.Validate(); err != nil {
			return fmt.Errorf("llm '%s': %w", name, err)
		}
	}
	if err := c.Embedder.Validate(); err != nil {
		return err
	}
	if err := c.VectorStore.Validate(); err != nil {
		return err
	}
	if err := c.Orchestrator.Validate(); err != nil {
		return err
	}
	for name, agent := range c.Agents {
		if agent.LLM != "" {
			if _, ok := c.LLMs[agent.LLM]; !ok {
				return fmt.Errorf("agent '%s' references unknown llm '%s'", name, agent.LLM)
			}
		}
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*)?\}`)

// expandEnvVars walks the raw config map and expands ${VAR} and
// ${VAR:-default} references in string values.
func expandEnvVars(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return envVarPattern.ReplaceAllStringFunc(v, func(match string) string {
			groups := envVarPattern.FindStringSubmatch(match)
			name := groups[1]
			if val, ok := os.LookupEnv(name); ok {
				return val
			}
			if groups[2] != "" {
				return groups[2][2:] // strip ":-"
			}
			return ""
		})
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[key] = expandEnvVars(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = expandEnvVars(item)
		}
		return out
	default:
		return value
	}
}
