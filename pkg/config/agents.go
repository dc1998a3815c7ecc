package config

import "fmt"

// OrchestratorConfig configures the supervisor routing loop.
type OrchestratorConfig struct {
	// MaxSteps is the dispatch budget per run. The loop force-terminates once
	// the step counter reaches it, regardless of routing decisions.
	MaxSteps int `yaml:"max_steps,omitempty" mapstructure:"max_steps"`

	// SupervisorLLM names the LLM provider the supervisor uses.
	SupervisorLLM string `yaml:"supervisor_llm,omitempty" mapstructure:"supervisor_llm"`
}

// SetDefaults applies default values.
func (c *OrchestratorConfig) SetDefaults() {
	if c.MaxSteps == 0 {
		c.MaxSteps = 12
	}
	if c.SupervisorLLM == "" {
		c.SupervisorLLM = "default"
	}
}

// Validate checks the configuration.
func (c *OrchestratorConfig) Validate() error {
	if c.MaxSteps < 1 {
		return fmt.Errorf("orchestrator max_steps must be >= 1")
	}
	return nil
}

// AgentConfig configures one worker agent.
type AgentConfig struct {
	// LLM names the LLM provider this agent uses. Defaults to "default".
	LLM string `yaml:"llm,omitempty" mapstructure:"llm"`

	// Instruction overrides the built-in instruction template.
	Instruction string `yaml:"instruction,omitempty" mapstructure:"instruction"`
}

// SetDefaults applies default values.
func (c *AgentConfig) SetDefaults() {
	if c.LLM == "" {
		c.LLM = "default"
	}
}

// IngestionConfig configures document extraction and chunking.
type IngestionConfig struct {
	ChunkSize    int `yaml:"chunk_size,omitempty" mapstructure:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap,omitempty" mapstructure:"chunk_overlap"`

	// BatchSize is the number of chunks embedded and upserted per batch.
	BatchSize int `yaml:"batch_size,omitempty" mapstructure:"batch_size"`

	// Concurrency bounds the number of embedding batches in flight.
	Concurrency int `yaml:"concurrency,omitempty" mapstructure:"concurrency"`
}

// SetDefaults applies default values.
func (c *IngestionConfig) SetDefaults() {
	if c.ChunkSize == 0 {
		c.ChunkSize = 1000
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = 200
	}
	if c.BatchSize == 0 {
		c.BatchSize = 100
	}
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
}

// QAConfig configures the direct question-answering path.
type QAConfig struct {
	// LLM names the LLM provider used for answering.
	LLM string `yaml:"llm,omitempty" mapstructure:"llm"`

	// TopK is the number of results fetched from each collection.
	TopK int `yaml:"top_k,omitempty" mapstructure:"top_k"`

	// MaxHistory bounds the number of chat messages carried into the prompt.
	MaxHistory int `yaml:"max_history,omitempty" mapstructure:"max_history"`
}

// SetDefaults applies default values.
func (c *QAConfig) SetDefaults() {
	if c.LLM == "" {
		c.LLM = "default"
	}
	if c.TopK == 0 {
		c.TopK = 6
	}
	if c.MaxHistory == 0 {
		c.MaxHistory = 6
	}
}
