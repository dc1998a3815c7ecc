package graph

import (
	"context"
	"strings"
	"testing"
)

type stubAgent struct {
	name string
	desc string
	out  []Message
	err  error
}

func (a *stubAgent) Name() string        { return a.name }
func (a *stubAgent) Description() string { return a.desc }
func (a *stubAgent) Invoke(_ context.Context, _ *ExecutionState) ([]Message, error) {
	return a.out, a.err
}

func registryWith(t *testing.T, names ...string) *AgentRegistry {
	t.Helper()
	reg := NewAgentRegistry()
	for _, name := range names {
		if err := reg.RegisterAgent(&stubAgent{name: name, desc: "stub"}); err != nil {
			t.Fatalf("RegisterAgent(%q) failed: %v", name, err)
		}
	}
	return reg
}

func TestParseRoutingDecision(t *testing.T) {
	reg := registryWith(t, "summarizer_agent", "document_ingestion_agent")

	tests := []struct {
		name       string
		raw        string
		wantAgent  string
		wantReason string
		wantErr    string
	}{
		{
			name:       "valid decision",
			raw:        `{"next_agent": "summarizer_agent", "reason": "document ingested"}`,
			wantAgent:  "summarizer_agent",
			wantReason: "document ingested",
		},
		{
			name:       "end sentinel",
			raw:        `{"next_agent": "end", "reason": "done"}`,
			wantAgent:  EndSentinel,
			wantReason: "done",
		},
		{
			name:       "case and whitespace normalized",
			raw:        `{"next_agent": "  Summarizer_Agent  ", "reason": "x"}`,
			wantAgent:  "summarizer_agent",
			wantReason: "x",
		},
		{
			name:       "missing reason gets default",
			raw:        `{"next_agent": "end"}`,
			wantAgent:  EndSentinel,
			wantReason: "no reason provided",
		},
		{
			name:    "not json",
			raw:     "sure, let's go with summarizer",
			wantErr: "not a JSON object",
		},
		{
			name:    "empty output",
			raw:     "   ",
			wantErr: "empty output",
		},
		{
			name:    "missing next_agent",
			raw:     `{"reason": "hmm"}`,
			wantErr: "missing next_agent",
		},
		{
			name:    "unknown agent",
			raw:     `{"next_agent": "flashcard_agent", "reason": "x"}`,
			wantErr: "unknown agent 'flashcard_agent'",
		},
		{
			name:    "supervisor cannot self route",
			raw:     `{"next_agent": "supervisor", "reason": "x"}`,
			wantErr: "supervisor cannot route to itself",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, perr := ParseRoutingDecision(tt.raw, reg)

			if tt.wantErr != "" {
				if perr == nil {
					t.Fatalf("expected parse error containing %q, got decision %+v", tt.wantErr, decision)
				}
				if !strings.Contains(perr.Detail, tt.wantErr) {
					t.Errorf("parse error detail = %q, want it to contain %q", perr.Detail, tt.wantErr)
				}
				if perr.Raw != tt.raw {
					t.Errorf("parse error raw = %q, want original input preserved", perr.Raw)
				}
				return
			}

			if perr != nil {
				t.Fatalf("unexpected parse error: %v", perr)
			}
			if decision.NextAgent != tt.wantAgent {
				t.Errorf("NextAgent = %q, want %q", decision.NextAgent, tt.wantAgent)
			}
			if decision.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", decision.Reason, tt.wantReason)
			}
		})
	}
}

func TestRoutingDecisionEnd(t *testing.T) {
	if !(&RoutingDecision{NextAgent: EndSentinel}).End() {
		t.Error("End() should be true for the end sentinel")
	}
	if (&RoutingDecision{NextAgent: "summarizer_agent"}).End() {
		t.Error("End() should be false for a worker agent")
	}
}

func TestAgentRegistryReservedNames(t *testing.T) {
	reg := NewAgentRegistry()

	if err := reg.RegisterAgent(&stubAgent{name: SupervisorName}); err == nil {
		t.Error("registering an agent named 'supervisor' should fail")
	}
	if err := reg.RegisterAgent(&stubAgent{name: EndSentinel}); err == nil {
		t.Error("registering an agent named 'end' should fail")
	}
	if err := reg.RegisterAgent(&stubAgent{name: "summarizer_agent"}); err != nil {
		t.Errorf("registering a normal agent failed: %v", err)
	}
	if err := reg.RegisterAgent(&stubAgent{name: "summarizer_agent"}); err == nil {
		t.Error("duplicate registration should fail")
	}
}

func TestAgentRegistryDescriptions(t *testing.T) {
	reg := NewAgentRegistry()
	if err := reg.RegisterAgent(&stubAgent{name: "b_agent", desc: "second"}); err != nil {
		t.Fatal(err)
	}
	if err := reg.RegisterAgent(&stubAgent{name: "a_agent", desc: "first"}); err != nil {
		t.Fatal(err)
	}

	got := reg.Descriptions()
	want := []string{"a_agent: first", "b_agent: second"}
	if len(got) != len(want) {
		t.Fatalf("Descriptions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Descriptions()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
