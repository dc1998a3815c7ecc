package graph

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// SupervisorName is the reserved name of the routing agent. It can never
	// be registered as a worker and never appears as a routing target.
	SupervisorName = "supervisor"

	// EndSentinel is the routing target that terminates a run. It is not an
	// agent and can never be a registry key.
	EndSentinel = "end"

	defaultRoutingReason = "no reason provided"
)

// RoutingDecision is the supervisor's parsed output: the next agent to
// dispatch, or the end sentinel.
type RoutingDecision struct {
	NextAgent string `json:"next_agent"`
	Reason    string `json:"reason"`
}

// End reports whether the decision terminates the run.
func (d *RoutingDecision) End() bool {
	return d.NextAgent == EndSentinel
}

// RoutingParseError describes why raw supervisor output did not yield a
// valid routing decision. The raw output is preserved for diagnostics.
type RoutingParseError struct {
	Raw    string
	Detail string
}

func (e *RoutingParseError) Error() string {
	return fmt.Sprintf("invalid routing decision: %s (raw output: %q)", e.Detail, e.Raw)
}

// ParseRoutingDecision parses raw supervisor output into a routing decision.
// The output must be a single JSON object with a next_agent naming either a
// registered agent or the end sentinel. Anything else is a parse error; the
// caller terminates the run rather than guessing.
func ParseRoutingDecision(raw string, agents *AgentRegistry) (*RoutingDecision, *RoutingParseError) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &RoutingParseError{Raw: raw, Detail: "empty output"}
	}

	var decision RoutingDecision
	if err := json.Unmarshal([]byte(trimmed), &decision); err != nil {
		return nil, &RoutingParseError{Raw: raw, Detail: fmt.Sprintf("not a JSON object: %v", err)}
	}

	decision.NextAgent = strings.ToLower(strings.TrimSpace(decision.NextAgent))
	if decision.NextAgent == "" {
		return nil, &RoutingParseError{Raw: raw, Detail: "missing next_agent"}
	}
	if strings.TrimSpace(decision.Reason) == "" {
		decision.Reason = defaultRoutingReason
	}

	if decision.NextAgent == EndSentinel {
		return &decision, nil
	}
	if decision.NextAgent == SupervisorName {
		return nil, &RoutingParseError{Raw: raw, Detail: "supervisor cannot route to itself"}
	}
	if _, ok := agents.Get(decision.NextAgent); !ok {
		return nil, &RoutingParseError{Raw: raw, Detail: fmt.Sprintf("unknown agent '%s'", decision.NextAgent)}
	}

	return &decision, nil
}
