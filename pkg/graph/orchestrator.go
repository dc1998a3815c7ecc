package graph

import (
	"context"
	"fmt"
	"log/slog"
)

// Router produces raw routing output for the current state. The concrete
// implementation is LLM-backed; the orchestrator only sees the raw string
// and parses it itself.
type Router interface {
	Route(ctx context.Context, state *ExecutionState, agents *AgentRegistry) (string, error)
}

// Orchestrator drives the supervisor loop: evaluate routing, dispatch the
// chosen agent, append its messages, repeat until the supervisor routes to
// end, something fails, or the dispatch budget runs out.
type Orchestrator struct {
	router   Router
	agents   *AgentRegistry
	maxSteps int
}

// NewOrchestrator validates the wiring up front so a run can never start
// without a router or with a zero budget.
func NewOrchestrator(router Router, agents *AgentRegistry, maxSteps int) (*Orchestrator, error) {
	if router == nil {
		return nil, fmt.Errorf("router is required")
	}
	if agents == nil || agents.Count() == 0 {
		return nil, fmt.Errorf("at least one agent must be registered")
	}
	if maxSteps <= 0 {
		return nil, fmt.Errorf("max steps must be positive, got %d", maxSteps)
	}
	return &Orchestrator{
		router:   router,
		agents:   agents,
		maxSteps: maxSteps,
	}, nil
}

// Run executes the loop from the given seed messages. The returned state is
// always the full partial history, whatever the termination cause; the error
// is non-nil only for context cancellation.
//
// Every supervisor evaluation appends its raw output to the history before
// parsing, so the transcript always shows why each dispatch happened. A
// malformed routing decision terminates the run with the messages
// accumulated so far; nothing further is dispatched.
func (o *Orchestrator) Run(ctx context.Context, seed ...Message) (*ExecutionState, error) {
	state := &ExecutionState{Messages: []Message{}}
	state.Append(seed...)

	for {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		raw, err := o.router.Route(ctx, state, o.agents)
		if err != nil {
			slog.Error("Supervisor evaluation failed", "error", err)
			o.terminate(state, DispatchFailure, fmt.Sprintf("supervisor failed: %v", err))
			return state, nil
		}
		state.Append(Message{Role: RoleAgent, Name: SupervisorName, Content: raw})

		decision, perr := ParseRoutingDecision(raw, o.agents)
		if perr != nil {
			slog.Warn("Terminating run: unparseable routing decision",
				"detail", perr.Detail,
				"raw", perr.Raw)
			o.terminate(state, ParseFailure, perr.Detail)
			return state, nil
		}

		if decision.End() {
			o.terminate(state, Completed, decision.Reason)
			slog.Info("Run completed",
				"steps", state.Steps,
				"reason", decision.Reason)
			return state, nil
		}

		agent, _ := o.agents.Get(decision.NextAgent)
		slog.Info("Dispatching agent",
			"agent", decision.NextAgent,
			"step", state.Steps+1,
			"reason", decision.Reason)

		msgs, err := agent.Invoke(ctx, state)
		if err != nil {
			slog.Error("Agent dispatch failed",
				"agent", decision.NextAgent,
				"error", err)
			o.terminate(state, DispatchFailure,
				fmt.Sprintf("agent '%s' failed: %v", decision.NextAgent, err))
			return state, nil
		}

		// Every dispatch must leave a trace in the history so the supervisor
		// never re-evaluates an unchanged transcript.
		if len(msgs) == 0 {
			msgs = []Message{{
				Role:    RoleAgent,
				Name:    decision.NextAgent,
				Content: fmt.Sprintf("Agent '%s' completed without output.", decision.NextAgent),
			}}
		}
		state.Append(msgs...)
		state.Steps++

		if state.Steps >= o.maxSteps {
			slog.Warn("Terminating run: dispatch budget exhausted",
				"steps", state.Steps,
				"max_steps", o.maxSteps)
			o.terminate(state, BudgetExhausted,
				fmt.Sprintf("dispatch budget of %d exhausted", o.maxSteps))
			return state, nil
		}
	}
}

// terminate flips the terminal flag without appending anything: the history
// ends with exactly the messages accumulated so far.
func (o *Orchestrator) terminate(state *ExecutionState, cause TerminationCause, detail string) {
	state.Terminated = true
	state.Cause = cause
	state.LastRouting = detail
}
