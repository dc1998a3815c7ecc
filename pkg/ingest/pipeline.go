// Package ingest ties extraction, chunking and chunk storage into the
// document ingestion pipeline used by the ingestion agent.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prepgraph/prepgraph/pkg/extract"
	"github.com/prepgraph/prepgraph/pkg/rag"
	"github.com/prepgraph/prepgraph/pkg/store"
)

// Result summarizes one processed document. It is what the ingestion agent
// reports back into the shared message history for downstream agents.
type Result struct {
	FileName      string `json:"file_name"`
	DocID         string `json:"doc_id"`
	NumChunks     int    `json:"num_chunks"`
	ExtractedText string `json:"extracted_text"`
}

// Pipeline extracts, chunks and stores a document.
type Pipeline struct {
	extractor *extract.Registry
	chunker   *rag.Chunker
	documents *store.DocumentStore
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(extractor *extract.Registry, chunker *rag.Chunker, documents *store.DocumentStore) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		chunker:   chunker,
		documents: documents,
	}
}

// Process runs extraction, chunking and storage for one file. The document
// ID is the file base name without extension, which keeps analysis records
// joinable to their source document.
func (p *Pipeline) Process(ctx context.Context, filePath string) (*Result, error) {
	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("file not found: %s", filePath)
	}

	extracted, err := p.extractor.Extract(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	if !extracted.Success {
		return nil, fmt.Errorf("extraction failed: %s", extracted.Error)
	}
	if strings.TrimSpace(extracted.Content) == "" {
		return nil, fmt.Errorf("no text extracted from document: %s", filePath)
	}

	fileName := filepath.Base(filePath)
	docID := DocID(filePath)

	chunks := p.chunker.Chunk(extracted.Content)
	stored, err := p.documents.StoreChunks(ctx, docID, fileName, chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to store chunks: %w", err)
	}

	slog.Info("Processed document",
		"file", fileName,
		"doc_id", docID,
		"chunks", stored,
		"chars", len(extracted.Content))

	return &Result{
		FileName:      fileName,
		DocID:         docID,
		NumChunks:     stored,
		ExtractedText: extracted.Content,
	}, nil
}

// DocID derives the stable correlation key for a file path.
func DocID(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
