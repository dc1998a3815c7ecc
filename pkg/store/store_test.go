package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prepgraph/prepgraph/pkg/databases"
	"github.com/prepgraph/prepgraph/pkg/rag"
)

type fakeEmbedder struct {
	failing bool
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.failing {
		return nil, errors.New("embedder down")
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

func (e *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (e *fakeEmbedder) Dimension() int       { return 3 }
func (e *fakeEmbedder) GetModelName() string { return "fake" }
func (e *fakeEmbedder) Close() error         { return nil }

type upsertCall struct {
	collection string
	id         string
	metadata   map[string]interface{}
}

type fakeDB struct {
	mu      sync.Mutex
	failing bool
	upserts []upsertCall
	hits    []databases.SearchResult
}

func (d *fakeDB) Upsert(_ context.Context, collection, id string, _ []float32, metadata map[string]interface{}) error {
	if d.failing {
		return errors.New("db down")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.upserts = append(d.upserts, upsertCall{collection: collection, id: id, metadata: metadata})
	return nil
}

func (d *fakeDB) Search(ctx context.Context, collection string, vector []float32, topK int) ([]databases.SearchResult, error) {
	return d.SearchWithFilter(ctx, collection, vector, topK, nil)
}

func (d *fakeDB) SearchWithFilter(_ context.Context, _ string, _ []float32, _ int, _ map[string]interface{}) ([]databases.SearchResult, error) {
	if d.failing {
		return nil, errors.New("db down")
	}
	return d.hits, nil
}

func (d *fakeDB) CreateCollection(_ context.Context, _ string, _ uint64) error { return nil }
func (d *fakeDB) Close() error                                                { return nil }

func TestAnalysisStoreStoreValidation(t *testing.T) {
	s := NewAnalysisStore(&fakeDB{}, &fakeEmbedder{}, "analyses")
	ctx := context.Background()

	tests := []struct {
		name string
		rec  AnalysisRecord
	}{
		{"missing agent_name", AnalysisRecord{ResultType: "summary", Content: "x"}},
		{"missing result_type", AnalysisRecord{AgentName: "a", Content: "x"}},
		{"missing content", AnalysisRecord{AgentName: "a", ResultType: "summary"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Store(ctx, tt.rec); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAnalysisStoreStore(t *testing.T) {
	db := &fakeDB{}
	s := NewAnalysisStore(db, &fakeEmbedder{}, "analyses")

	confirmation, err := s.Store(context.Background(), AnalysisRecord{
		AgentName:  "summarizer_agent",
		ResultType: "summary",
		Content:    "chapter notes",
		DocID:      "paper",
		Metadata:   map[string]interface{}{"subject": "physics"},
	})
	if err != nil {
		t.Fatalf("Store() error: %v", err)
	}

	if !strings.Contains(confirmation, "type='summary'") || !strings.Contains(confirmation, "agent='summarizer_agent'") {
		t.Errorf("confirmation = %q, want type and agent echoed back", confirmation)
	}

	if len(db.upserts) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(db.upserts))
	}
	call := db.upserts[0]
	if call.collection != "analyses" {
		t.Errorf("collection = %q, want analyses", call.collection)
	}
	if call.id == "" {
		t.Error("record should get a generated ID")
	}
	for _, key := range []string{"content", "agent_name", "type", "timestamp", "doc_id", "subject"} {
		if _, ok := call.metadata[key]; !ok {
			t.Errorf("metadata missing key %q", key)
		}
	}
}

func TestAnalysisStoreRetrieve(t *testing.T) {
	db := &fakeDB{hits: []databases.SearchResult{
		{ID: "1", Score: 0.9, Content: "first", Metadata: map[string]interface{}{"type": "summary"}},
		{ID: "2", Score: 0.7, Content: "second", Metadata: map[string]interface{}{"type": "trend_analysis"}},
	}}
	s := NewAnalysisStore(db, &fakeEmbedder{}, "analyses")

	result := s.Retrieve(context.Background(), "physics topics", 5, nil)
	if result.Query != "physics topics" {
		t.Errorf("Query = %q, want it echoed back", result.Query)
	}
	if len(result.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(result.Results))
	}
	if result.Results[0].Rank != 1 || result.Results[1].Rank != 2 {
		t.Errorf("ranks should be 1-based and ordered, got %+v", result.Results)
	}
	if result.Results[0].Content != "first" {
		t.Errorf("Results[0].Content = %q, want %q", result.Results[0].Content, "first")
	}
}

func TestAnalysisStoreRetrieveDegrades(t *testing.T) {
	// A dead backend yields empty results, never an error.
	s := NewAnalysisStore(&fakeDB{failing: true}, &fakeEmbedder{}, "analyses")
	result := s.Retrieve(context.Background(), "anything", 5, nil)
	if result == nil {
		t.Fatal("Retrieve must not return nil")
	}
	if len(result.Results) != 0 {
		t.Errorf("got %d results from a failing backend, want 0", len(result.Results))
	}

	s = NewAnalysisStore(&fakeDB{}, &fakeEmbedder{failing: true}, "analyses")
	result = s.Retrieve(context.Background(), "anything", 5, nil)
	if len(result.Results) != 0 {
		t.Errorf("got %d results with a failing embedder, want 0", len(result.Results))
	}
}

func TestContentText(t *testing.T) {
	if got, err := ContentText("plain"); err != nil || got != "plain" {
		t.Errorf("ContentText(string) = %q, %v", got, err)
	}
	if got, err := ContentText(map[string]interface{}{"k": "v"}); err != nil || got != `{"k":"v"}` {
		t.Errorf("ContentText(map) = %q, %v", got, err)
	}
	if _, err := ContentText(nil); err == nil {
		t.Error("ContentText(nil) should fail")
	}
}

func TestDocumentStoreStoreChunks(t *testing.T) {
	db := &fakeDB{}
	s := NewDocumentStore(db, &fakeEmbedder{}, "documents", 2, 2)

	chunks := []rag.Chunk{
		{Index: 0, Content: "alpha", TokenCount: 1},
		{Index: 1, Content: "beta", TokenCount: 1},
		{Index: 2, Content: "gamma", TokenCount: 1},
	}
	stored, err := s.StoreChunks(context.Background(), "paper", "paper.pdf", chunks)
	if err != nil {
		t.Fatalf("StoreChunks() error: %v", err)
	}
	if stored != 3 {
		t.Errorf("stored = %d, want 3", stored)
	}
	if len(db.upserts) != 3 {
		t.Fatalf("expected 3 upserts, got %d", len(db.upserts))
	}
	for _, call := range db.upserts {
		if call.metadata["doc_id"] != "paper" {
			t.Errorf("chunk metadata doc_id = %v, want paper", call.metadata["doc_id"])
		}
	}
}

func TestDocumentStoreStoreChunksEmpty(t *testing.T) {
	s := NewDocumentStore(&fakeDB{}, &fakeEmbedder{}, "documents", 0, 0)
	stored, err := s.StoreChunks(context.Background(), "d", "d.txt", nil)
	if err != nil || stored != 0 {
		t.Errorf("StoreChunks(empty) = %d, %v, want 0, nil", stored, err)
	}
}

func TestDocumentStoreSearchDegrades(t *testing.T) {
	s := NewDocumentStore(&fakeDB{failing: true}, &fakeEmbedder{}, "documents", 0, 0)
	if hits := s.Search(context.Background(), "q", 5, nil); hits != nil {
		t.Errorf("Search on a failing backend = %v, want nil", hits)
	}
}
