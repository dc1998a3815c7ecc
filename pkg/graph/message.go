// Package graph implements the supervisor routing loop: a shared message
// history, an agent registry, a strict-JSON routing decision parser and the
// orchestrator that drives dispatch until termination.
package graph

// Role classifies who produced a message in the shared history.
type Role string

const (
	RoleUser   Role = "user"
	RoleAgent  Role = "agent"
	RoleSystem Role = "system"
)

// Message is one entry in the shared, append-only execution history.
// Name identifies the producing agent for agent messages.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

// TerminationCause records why a run stopped.
type TerminationCause string

const (
	// Completed means the supervisor routed to the end sentinel.
	Completed TerminationCause = "completed"

	// ParseFailure means the supervisor's routing output could not be
	// parsed into a valid decision.
	ParseFailure TerminationCause = "parse_failure"

	// DispatchFailure means a dispatched agent returned an error.
	DispatchFailure TerminationCause = "dispatch_failure"

	// BudgetExhausted means the dispatch budget ran out before the
	// supervisor routed to end.
	BudgetExhausted TerminationCause = "budget_exhausted"
)

// ExecutionState is the run's accumulated state. Messages only ever grow;
// Steps counts agent dispatches, not supervisor evaluations.
type ExecutionState struct {
	Messages   []Message        `json:"messages"`
	Steps      int              `json:"steps"`
	Terminated bool             `json:"terminated"`
	Cause      TerminationCause `json:"cause,omitempty"`

	// LastRouting holds the reason attached to the final routing decision,
	// or the parse failure detail when Cause is ParseFailure.
	LastRouting string `json:"last_routing,omitempty"`
}

// Append adds messages to the history.
func (s *ExecutionState) Append(msgs ...Message) {
	s.Messages = append(s.Messages, msgs...)
}

// LastAgentMessage returns the most recent message produced by any agent,
// or false when no agent has spoken yet.
func (s *ExecutionState) LastAgentMessage() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAgent {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}
