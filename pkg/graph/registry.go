package graph

import (
	"context"
	"fmt"

	"github.com/prepgraph/prepgraph/pkg/registry"
)

// Agent is a worker node in the routing graph. Invoke reads the shared
// history and returns the messages to append; it must not mutate the state.
type Agent interface {
	Name() string

	// Description is surfaced to the supervisor so it can route work.
	Description() string

	Invoke(ctx context.Context, state *ExecutionState) ([]Message, error)
}

// AgentRegistry holds the routable worker agents. The supervisor name and
// the end sentinel are reserved and can never be registered.
type AgentRegistry struct {
	registry.Registry[Agent]
}

func NewAgentRegistry() *AgentRegistry {
	return &AgentRegistry{
		Registry: registry.NewBaseRegistry[Agent](),
	}
}

// RegisterAgent registers an agent under its own name.
func (r *AgentRegistry) RegisterAgent(agent Agent) error {
	name := agent.Name()
	switch name {
	case SupervisorName:
		return fmt.Errorf("'%s' is reserved for the routing agent", SupervisorName)
	case EndSentinel:
		return fmt.Errorf("'%s' is a termination sentinel, not an agent name", EndSentinel)
	}
	return r.Register(name, agent)
}

// Descriptions returns "name: description" lines for every registered agent
// in sorted name order, for inclusion in the supervisor prompt.
func (r *AgentRegistry) Descriptions() []string {
	names := r.Names()
	lines := make([]string, 0, len(names))
	for _, name := range names {
		agent, _ := r.Get(name)
		lines = append(lines, fmt.Sprintf("%s: %s", name, agent.Description()))
	}
	return lines
}
