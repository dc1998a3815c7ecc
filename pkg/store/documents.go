package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/prepgraph/prepgraph/pkg/databases"
	"github.com/prepgraph/prepgraph/pkg/embedders"
	"github.com/prepgraph/prepgraph/pkg/rag"
)

// DocumentStore persists raw extracted text chunks in their own collection,
// keeping them separate from analysis artifacts.
type DocumentStore struct {
	db          databases.DatabaseProvider
	embedder    embedders.EmbedderProvider
	collection  string
	batchSize   int
	concurrency int
}

// NewDocumentStore creates a document chunk store.
func NewDocumentStore(db databases.DatabaseProvider, embedder embedders.EmbedderProvider, collection string, batchSize, concurrency int) *DocumentStore {
	if batchSize <= 0 {
		batchSize = 100
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &DocumentStore{
		db:          db,
		embedder:    embedder,
		collection:  collection,
		batchSize:   batchSize,
		concurrency: concurrency,
	}
}

// StoreChunks embeds and upserts document chunks in concurrent batches.
// Returns the number of chunks stored.
func (s *DocumentStore) StoreChunks(ctx context.Context, docID, source string, chunks []rag.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, chunk := range batch {
				texts[i] = chunk.Content
			}

			vectors, err := s.embedder.EmbedBatch(gctx, texts)
			if err != nil {
				return fmt.Errorf("failed to embed chunk batch: %w", err)
			}

			for i, chunk := range batch {
				metadata := map[string]interface{}{
					"content":     chunk.Content,
					"doc_id":      docID,
					"source":      source,
					"chunk_index": chunk.Index,
					"token_count": chunk.TokenCount,
					"timestamp":   timestamp,
				}
				if err := s.db.Upsert(gctx, s.collection, uuid.NewString(), vectors[i], metadata); err != nil {
					return fmt.Errorf("failed to upsert chunk %d: %w", chunk.Index, err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	slog.Info("Stored document chunks",
		"doc_id", docID,
		"source", source,
		"chunks", len(chunks))

	return len(chunks), nil
}

// Search runs a similarity query over the raw chunk collection, degrading to
// empty results on backend failure.
func (s *DocumentStore) Search(ctx context.Context, query string, k int, filter map[string]interface{}) []databases.SearchResult {
	if k < 1 {
		k = 1
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		slog.Warn("Document search degraded to empty results: embedding failed", "error", err)
		return nil
	}

	hits, err := s.db.SearchWithFilter(ctx, s.collection, vector, k, filter)
	if err != nil {
		slog.Warn("Document search degraded to empty results: search failed", "error", err)
		return nil
	}
	return hits
}
