// Package store implements the persistent store adapter: an append-only,
// similarity-queryable store of analysis artifacts and raw document chunks
// over a vector database provider plus an embedder.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prepgraph/prepgraph/pkg/databases"
	"github.com/prepgraph/prepgraph/pkg/embedders"
)

// AnalysisRecord is one immutable analysis artifact. Corrections are new
// records; nothing is ever mutated in place.
type AnalysisRecord struct {
	ID         string                 `json:"id"`
	AgentName  string                 `json:"agent_name"`
	ResultType string                 `json:"result_type"`
	Content    string                 `json:"content"`
	DocID      string                 `json:"doc_id,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// RetrievedItem is one ranked retrieval hit.
type RetrievedItem struct {
	Rank     int                    `json:"rank"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata"`
	Score    float32                `json:"score,omitempty"`
}

// RetrievalResult is the query surface payload: the query echoed back plus
// the ranked results. An unavailable backend yields an empty Results list,
// never an error, and callers treat empty as "no context".
type RetrievalResult struct {
	Query   string          `json:"query"`
	Results []RetrievedItem `json:"results"`
}

// AnalysisStore persists analysis artifacts in one collection.
type AnalysisStore struct {
	db         databases.DatabaseProvider
	embedder   embedders.EmbedderProvider
	collection string
}

// NewAnalysisStore creates an analysis store over the given backends.
func NewAnalysisStore(db databases.DatabaseProvider, embedder embedders.EmbedderProvider, collection string) *AnalysisStore {
	return &AnalysisStore{
		db:         db,
		embedder:   embedder,
		collection: collection,
	}
}

// ContentText flattens JSON-serializable content to its stored text form.
// Strings pass through; everything else is JSON-encoded.
func ContentText(content interface{}) (string, error) {
	switch v := content.(type) {
	case string:
		return v, nil
	case nil:
		return "", fmt.Errorf("content cannot be nil")
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("content is not JSON-serializable: %w", err)
		}
		return string(data), nil
	}
}

// Store appends one analysis record and returns a confirmation string.
// Duplicate stores create duplicate records; there is no dedup guarantee.
func (s *AnalysisStore) Store(ctx context.Context, rec AnalysisRecord) (string, error) {
	if rec.AgentName == "" {
		return "", fmt.Errorf("agent_name is required")
	}
	if rec.ResultType == "" {
		return "", fmt.Errorf("result_type is required")
	}
	if rec.Content == "" {
		return "", fmt.Errorf("content is required")
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	vector, err := s.embedder.Embed(ctx, rec.Content)
	if err != nil {
		return "", fmt.Errorf("failed to embed analysis content: %w", err)
	}

	metadata := map[string]interface{}{
		"content":    rec.Content,
		"agent_name": rec.AgentName,
		"type":       rec.ResultType,
		"timestamp":  rec.Timestamp.Format(time.RFC3339),
	}
	if rec.DocID != "" {
		metadata["doc_id"] = rec.DocID
	}
	for k, v := range rec.Metadata {
		metadata[k] = v
	}

	if err := s.db.Upsert(ctx, s.collection, rec.ID, vector, metadata); err != nil {
		return "", fmt.Errorf("failed to store analysis record: %w", err)
	}

	slog.Info("Stored analysis result",
		"type", rec.ResultType,
		"agent", rec.AgentName,
		"doc_id", rec.DocID,
		"id", rec.ID)

	return fmt.Sprintf("stored analysis result: type='%s', agent='%s', id='%s'", rec.ResultType, rec.AgentName, rec.ID), nil
}

// Retrieve runs a similarity query with an optional metadata filter.
// Backend failures degrade to an empty result list and are logged, never
// surfaced as errors.
func (s *AnalysisStore) Retrieve(ctx context.Context, query string, k int, filter map[string]interface{}) *RetrievalResult {
	out := &RetrievalResult{Query: query, Results: []RetrievedItem{}}
	if k < 1 {
		k = 1
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		slog.Warn("Analysis retrieval degraded to empty results: embedding failed", "error", err)
		return out
	}

	hits, err := s.db.SearchWithFilter(ctx, s.collection, vector, k, filter)
	if err != nil {
		slog.Warn("Analysis retrieval degraded to empty results: search failed", "error", err)
		return out
	}

	for i, hit := range hits {
		out.Results = append(out.Results, RetrievedItem{
			Rank:     i + 1,
			Content:  hit.Content,
			Metadata: hit.Metadata,
			Score:    hit.Score,
		})
	}
	return out
}
