package agents

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/prepgraph/prepgraph/pkg/llms"
	"github.com/prepgraph/prepgraph/pkg/store"
)

// QAAgent answers student questions directly against the stores. It runs
// outside the routing graph: chat questions never enter the supervisor loop.
type QAAgent struct {
	llm         llms.LLMProvider
	analyses    *store.AnalysisStore
	documents   *store.DocumentStore
	instruction string
	topK        int
	maxHistory  int

	mu      sync.Mutex
	history []llms.Message
}

// NewQAAgent creates the question-answering agent. An empty instruction
// selects the built-in template.
func NewQAAgent(llm llms.LLMProvider, analyses *store.AnalysisStore, documents *store.DocumentStore, instruction string, topK, maxHistory int) *QAAgent {
	if instruction == "" {
		instruction = qaInstruction
	}
	if topK < 1 {
		topK = 6
	}
	if maxHistory < 0 {
		maxHistory = 0
	}
	return &QAAgent{
		llm:         llm,
		analyses:    analyses,
		documents:   documents,
		instruction: instruction,
		topK:        topK,
		maxHistory:  maxHistory,
	}
}

// Answer retrieves context from both collections and generates a grounded
// reply. Retrieval failures have already degraded to empty results by the
// time they reach here, so a dead backend yields a "no context" answer
// rather than an error.
func (a *QAAgent) Answer(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("question cannot be empty")
	}

	contextBlock := a.buildContext(ctx, question)

	messages := []llms.Message{
		{Role: llms.RoleSystem, Content: a.instruction + "\n\n" + contextBlock},
	}
	messages = append(messages, a.recentHistory()...)
	messages = append(messages, llms.Message{Role: llms.RoleUser, Content: question})

	answer, _, err := a.llm.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("answer generation failed: %w", err)
	}

	a.remember(question, answer)
	return answer, nil
}

func (a *QAAgent) buildContext(ctx context.Context, question string) string {
	var b strings.Builder

	analyses := a.analyses.Retrieve(ctx, question, a.topK, nil)
	if len(analyses.Results) > 0 {
		b.WriteString("STORED ANALYSIS:\n")
		for _, item := range analyses.Results {
			fmt.Fprintf(&b, "%d. %s\n", item.Rank, item.Content)
		}
		b.WriteString("\n")
	}

	docHits := a.documents.Search(ctx, question, a.topK, nil)
	if len(docHits) > 0 {
		b.WriteString("RAW TEXT:\n")
		for i, hit := range docHits {
			fmt.Fprintf(&b, "%d. %s\n", i+1, hit.Content)
		}
		b.WriteString("\n")
	}

	if b.Len() == 0 {
		return "No stored context was found for this question."
	}
	return b.String()
}

// recentHistory returns a copy of the bounded chat history.
func (a *QAAgent) recentHistory() []llms.Message {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]llms.Message, len(a.history))
	copy(out, a.history)
	return out
}

// remember appends one exchange and trims to the configured bound.
func (a *QAAgent) remember(question, answer string) {
	if a.maxHistory == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = append(a.history,
		llms.Message{Role: llms.RoleUser, Content: question},
		llms.Message{Role: llms.RoleAssistant, Content: answer},
	)
	if excess := len(a.history) - a.maxHistory*2; excess > 0 {
		a.history = a.history[excess:]
	}
}
