package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/prepgraph/prepgraph/pkg/databases"
	"github.com/prepgraph/prepgraph/pkg/store"
)

type memDB struct {
	upserts int
	hits    []databases.SearchResult
}

func (d *memDB) Upsert(_ context.Context, _ string, _ string, _ []float32, _ map[string]interface{}) error {
	d.upserts++
	return nil
}

func (d *memDB) Search(ctx context.Context, collection string, vector []float32, topK int) ([]databases.SearchResult, error) {
	return d.SearchWithFilter(ctx, collection, vector, topK, nil)
}

func (d *memDB) SearchWithFilter(_ context.Context, _ string, _ []float32, _ int, _ map[string]interface{}) ([]databases.SearchResult, error) {
	return d.hits, nil
}

func (d *memDB) CreateCollection(_ context.Context, _ string, _ uint64) error { return nil }
func (d *memDB) Close() error                                                 { return nil }

type memEmbedder struct{}

func (memEmbedder) Embed(_ context.Context, _ string) ([]float32, error) { return []float32{1}, nil }
func (memEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}
func (memEmbedder) Dimension() int       { return 1 }
func (memEmbedder) GetModelName() string { return "fake" }
func (memEmbedder) Close() error         { return nil }

func analysisStoreWith(db *memDB) *store.AnalysisStore {
	return store.NewAnalysisStore(db, memEmbedder{}, "analyses")
}

func TestStoreAnalysisTool(t *testing.T) {
	db := &memDB{}
	tool := NewStoreAnalysisTool(analysisStoreWith(db))

	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"agent_name":  "summarizer_agent",
		"result_type": "summary",
		"content":     "notes",
		"doc_id":      "paper",
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !result.Success {
		t.Fatalf("Execute() failed: %s", result.Error)
	}
	if !strings.Contains(result.Content, "type='summary'") {
		t.Errorf("confirmation = %q", result.Content)
	}
	if db.upserts != 1 {
		t.Errorf("upserts = %d, want 1", db.upserts)
	}
}

func TestStoreAnalysisToolStructuredContent(t *testing.T) {
	// Non-string content is JSON-encoded before storage.
	tool := NewStoreAnalysisTool(analysisStoreWith(&memDB{}))

	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"agent_name":  "a",
		"result_type": "summary",
		"content":     map[string]interface{}{"topic": "optics"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success {
		t.Fatalf("Execute() failed: %s", result.Error)
	}
}

func TestStoreAnalysisToolMissingFields(t *testing.T) {
	tool := NewStoreAnalysisTool(analysisStoreWith(&memDB{}))

	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"content": "orphan",
	})
	if err != nil {
		t.Fatalf("missing fields are a tool failure, not a Go error: %v", err)
	}
	if result.Success {
		t.Error("expected a failed result")
	}
	if result.Error == "" {
		t.Error("failed result should carry an error message")
	}
}

func TestRetrieveAnalysisTool(t *testing.T) {
	db := &memDB{hits: []databases.SearchResult{
		{Content: "first", Metadata: map[string]interface{}{"type": "summary"}},
		{Content: "second", Metadata: map[string]interface{}{"type": "summary"}},
	}}
	tool := NewRetrieveAnalysisTool(analysisStoreWith(db))

	// k arrives as float64 when decoded from JSON.
	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"query": "optics",
		"k":     float64(2),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success {
		t.Fatalf("Execute() failed: %s", result.Error)
	}

	payload, ok := result.Output.(*store.RetrievalResult)
	if !ok {
		t.Fatalf("Output is %T, want *store.RetrievalResult", result.Output)
	}
	if payload.Query != "optics" {
		t.Errorf("Query = %q", payload.Query)
	}
	if len(payload.Results) != 2 || payload.Results[0].Rank != 1 {
		t.Errorf("Results = %+v", payload.Results)
	}
}

func TestRetrieveAnalysisToolRequiresQuery(t *testing.T) {
	tool := NewRetrieveAnalysisTool(analysisStoreWith(&memDB{}))
	result, err := tool.Execute(context.Background(), map[string]interface{}{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Success {
		t.Error("missing query should fail the result")
	}
}

func TestToolRegistryExecute(t *testing.T) {
	reg := NewToolRegistry()
	tool := NewStoreAnalysisTool(analysisStoreWith(&memDB{}))
	if err := reg.RegisterTool(tool); err != nil {
		t.Fatal(err)
	}

	if _, ok := reg.Get(StoreAnalysisToolName); !ok {
		t.Error("tool should be registered under its own name")
	}
	if _, err := reg.Execute(context.Background(), "missing_tool", nil); err == nil {
		t.Error("executing an unknown tool should be a Go error")
	}
}
