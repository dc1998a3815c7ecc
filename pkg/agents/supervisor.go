package agents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prepgraph/prepgraph/pkg/graph"
	"github.com/prepgraph/prepgraph/pkg/llms"
)

// Supervisor is the LLM-backed router. It renders the shared history plus
// the registered agent descriptions into a prompt and asks the model for a
// strict JSON routing decision. It never parses its own output; the
// orchestrator owns that boundary.
type Supervisor struct {
	llm         llms.LLMProvider
	instruction string
}

// NewSupervisor creates the routing agent. An empty instruction selects the
// built-in template.
func NewSupervisor(llm llms.LLMProvider, instruction string) *Supervisor {
	if instruction == "" {
		instruction = supervisorInstruction
	}
	return &Supervisor{llm: llm, instruction: instruction}
}

// Route asks the model for the next routing decision as raw text.
func (s *Supervisor) Route(ctx context.Context, state *graph.ExecutionState, agents *graph.AgentRegistry) (string, error) {
	system := s.instruction
	if strings.Contains(system, "%s") {
		system = fmt.Sprintf(system, strings.Join(agents.Descriptions(), "\n"))
	}

	messages := []llms.Message{
		{Role: llms.RoleSystem, Content: system},
		{Role: llms.RoleUser, Content: "Conversation so far:\n" + renderTranscript(state)},
	}

	output, tokens, err := s.llm.GenerateStructured(ctx, messages, &llms.StructuredOutputConfig{Format: "json"})
	if err != nil {
		return "", fmt.Errorf("routing generation failed: %w", err)
	}

	slog.Debug("Supervisor evaluated routing",
		"model", s.llm.GetModelName(),
		"tokens", tokens,
		"output", output)
	return output, nil
}
