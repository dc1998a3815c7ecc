// Package llms provides chat-completion providers behind a narrow interface.
// The orchestration loop treats every model call as a capability returning raw
// text; trust decisions happen at the routing parser, never here.
package llms

import "context"

// Role is a chat role as understood by the completion APIs.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn sent to a provider.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// StructuredOutputConfig requests machine-readable output from providers that
// support it. The supervisor uses Format "json" for routing decisions.
type StructuredOutputConfig struct {
	// Format is the output format. Only "json" is meaningful today.
	Format string `json:"format,omitempty"`
}

// LLMProvider is the capability boundary for text generation.
type LLMProvider interface {
	// Generate performs a non-streaming completion.
	// Returns the generated text and the total token usage.
	Generate(ctx context.Context, messages []Message) (string, int, error)

	// GenerateStructured performs a completion with a structured output hint.
	// Providers without structured output support fall back to Generate.
	GenerateStructured(ctx context.Context, messages []Message, cfg *StructuredOutputConfig) (string, int, error)

	GetModelName() string

	Close() error
}
