package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepgraph/prepgraph/pkg/databases"
	"github.com/prepgraph/prepgraph/pkg/extract"
	"github.com/prepgraph/prepgraph/pkg/rag"
	"github.com/prepgraph/prepgraph/pkg/store"
)

type memDB struct {
	upserts int
}

func (d *memDB) Upsert(_ context.Context, _ string, _ string, _ []float32, _ map[string]interface{}) error {
	d.upserts++
	return nil
}

func (d *memDB) Search(_ context.Context, _ string, _ []float32, _ int) ([]databases.SearchResult, error) {
	return nil, nil
}

func (d *memDB) SearchWithFilter(_ context.Context, _ string, _ []float32, _ int, _ map[string]interface{}) ([]databases.SearchResult, error) {
	return nil, nil
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

func newTestPipeline(db *memDB) *Pipeline {
	documents := store.NewDocumentStore(db, memEmbedder{}, "documents", 10, 2)
	chunker := rag.NewChunker(rag.ChunkerConfig{Size: 50, Overlap: 10})
	return NewPipeline(extract.NewRegistry(), chunker, documents)
}

func TestPipelineProcess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mechanics notes.txt")
	content := strings.Repeat("Newton's laws of motion describe classical mechanics. ", 5)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	db := &memDB{}
	result, err := newTestPipeline(db).Process(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "mechanics notes.txt", result.FileName)
	assert.Equal(t, "mechanics notes", result.DocID)
	assert.Greater(t, result.NumChunks, 1)
	assert.Equal(t, result.NumChunks, db.upserts)
	assert.Contains(t, result.ExtractedText, "Newton's laws")
}

func TestPipelineProcessMissingFile(t *testing.T) {
	_, err := newTestPipeline(&memDB{}).Process(context.Background(), "/nonexistent/ghost.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestPipelineProcessUnsupportedType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diagram.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 0x50}, 0644))

	_, err := newTestPipeline(&memDB{}).Process(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extraction failed")
}

func TestDocID(t *testing.T) {
	assert.Equal(t, "paper", DocID("/uploads/paper.pdf"))
	assert.Equal(t, "syllabus 2025", DocID("syllabus 2025.docx"))
	assert.Equal(t, "README", DocID("README"))
}
