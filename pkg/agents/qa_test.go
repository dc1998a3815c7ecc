package agents

import (
	"context"
	"strings"
	"testing"

	"github.com/prepgraph/prepgraph/pkg/databases"
	"github.com/prepgraph/prepgraph/pkg/store"
)

// qaFakeDB serves canned hits per collection.
type qaFakeDB struct {
	hits map[string][]databases.SearchResult
}

func (d *qaFakeDB) Upsert(_ context.Context, _ string, _ string, _ []float32, _ map[string]interface{}) error {
	return nil
}

func (d *qaFakeDB) Search(ctx context.Context, collection string, vector []float32, topK int) ([]databases.SearchResult, error) {
	return d.SearchWithFilter(ctx, collection, vector, topK, nil)
}

func (d *qaFakeDB) SearchWithFilter(_ context.Context, collection string, _ []float32, _ int, _ map[string]interface{}) ([]databases.SearchResult, error) {
	return d.hits[collection], nil
}

func (d *qaFakeDB) CreateCollection(_ context.Context, _ string, _ uint64) error { return nil }
func (d *qaFakeDB) Close() error                                                { return nil }

type qaFakeEmbedder struct{}

func (qaFakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (qaFakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (qaFakeEmbedder) Dimension() int       { return 2 }
func (qaFakeEmbedder) GetModelName() string { return "fake" }
func (qaFakeEmbedder) Close() error         { return nil }

func newQAAgentWith(db *qaFakeDB, llm *fakeLLM, maxHistory int) *QAAgent {
	analyses := store.NewAnalysisStore(db, qaFakeEmbedder{}, "analyses")
	documents := store.NewDocumentStore(db, qaFakeEmbedder{}, "documents", 0, 0)
	return NewQAAgent(llm, analyses, documents, "", 3, maxHistory)
}

func TestQAAgentAnswerWithContext(t *testing.T) {
	db := &qaFakeDB{hits: map[string][]databases.SearchResult{
		"analyses":  {{Content: "stored summary of chapter 1"}},
		"documents": {{Content: "raw chunk about entropy"}},
	}}
	llm := &fakeLLM{response: "Entropy measures disorder."}
	qa := newQAAgentWith(db, llm, 4)

	answer, err := qa.Answer(context.Background(), "What is entropy?")
	if err != nil {
		t.Fatalf("Answer() error: %v", err)
	}
	if answer != "Entropy measures disorder." {
		t.Errorf("answer = %q", answer)
	}

	system := llm.lastMsgs[0].Content
	if !strings.Contains(system, "STORED ANALYSIS") || !strings.Contains(system, "stored summary of chapter 1") {
		t.Error("system prompt should carry the stored analysis block")
	}
	if !strings.Contains(system, "RAW TEXT") || !strings.Contains(system, "raw chunk about entropy") {
		t.Error("system prompt should carry the raw text block")
	}
	if llm.lastMsgs[len(llm.lastMsgs)-1].Content != "What is entropy?" {
		t.Error("question should be the final user message")
	}
}

func TestQAAgentNoContext(t *testing.T) {
	qa := newQAAgentWith(&qaFakeDB{}, &fakeLLM{response: "I don't have material on that."}, 4)

	if _, err := qa.Answer(context.Background(), "Anything?"); err != nil {
		t.Fatal(err)
	}
}

func TestQAAgentEmptyQuestion(t *testing.T) {
	qa := newQAAgentWith(&qaFakeDB{}, &fakeLLM{}, 4)
	if _, err := qa.Answer(context.Background(), "  "); err == nil {
		t.Error("empty question should fail")
	}
}

func TestQAAgentHistoryBounded(t *testing.T) {
	llm := &fakeLLM{response: "ok"}
	qa := newQAAgentWith(&qaFakeDB{}, llm, 2)

	for _, q := range []string{"q1", "q2", "q3", "q4"} {
		if _, err := qa.Answer(context.Background(), q); err != nil {
			t.Fatal(err)
		}
	}

	// Prompt: system + bounded history + current question. With a bound of 2
	// exchanges the history carries at most 4 messages.
	if got := len(llm.lastMsgs); got > 1+4+1 {
		t.Errorf("prompt has %d messages, history bound not applied", got)
	}
	joined := ""
	for _, m := range llm.lastMsgs {
		joined += m.Content + "\n"
	}
	if strings.Contains(joined, "q1") {
		t.Error("oldest exchange should have been trimmed from the history")
	}
}
