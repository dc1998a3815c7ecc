// Package rag provides text chunking for vector store indexing.
package rag

import (
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Chunk is one indexed piece of an extracted document.
type Chunk struct {
	// Index is the 0-based position of the chunk within its document.
	Index int

	Content string

	// TokenCount is the tiktoken count of Content, or an approximation when
	// the encoding is unavailable offline.
	TokenCount int
}

// ChunkerConfig configures the overlapping chunker.
type ChunkerConfig struct {
	// Size is the target chunk size in characters.
	Size int

	// Overlap is the number of characters repeated between adjacent chunks,
	// preserving context at boundaries.
	Overlap int

	// Separators are preferred split points, tried in order.
	Separators []string
}

// DefaultChunkerConfig mirrors the ingestion defaults (1000/200).
func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{
		Size:       1000,
		Overlap:    200,
		Separators: []string{"\n\n", ". ", "! ", "? ", "\n", " "},
	}
}

// Chunker splits content into overlapping chunks, preferring to cut at
// natural boundaries.
type Chunker struct {
	config  ChunkerConfig
	encoder *tiktoken.Tiktoken
}

// NewChunker creates a chunker. Token counting degrades to a character-based
// estimate when the tiktoken encoding cannot be loaded (e.g. offline).
func NewChunker(cfg ChunkerConfig) *Chunker {
	if cfg.Size <= 0 {
		cfg.Size = 1000
	}
	if cfg.Overlap < 0 {
		cfg.Overlap = 0
	}
	if cfg.Overlap >= cfg.Size {
		cfg.Overlap = cfg.Size / 4
	}
	if len(cfg.Separators) == 0 {
		cfg.Separators = DefaultChunkerConfig().Separators
	}

	encoder, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		encoder = nil
	}

	return &Chunker{config: cfg, encoder: encoder}
}

// Chunk splits content into ordered chunks.
func (c *Chunker) Chunk(content string) []Chunk {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	var chunks []Chunk
	start := 0
	for start < len(content) {
		end := start + c.config.Size
		if end >= len(content) {
			end = len(content)
		} else {
			end = c.findSplitPoint(content, start, end)
		}

		piece := strings.TrimSpace(content[start:end])
		if piece != "" {
			chunks = append(chunks, Chunk{
				Index:      len(chunks),
				Content:    piece,
				TokenCount: c.countTokens(piece),
			})
		}

		if end == len(content) {
			break
		}
		next := snapToRuneStart(content, end-c.config.Overlap)
		if next <= start {
			_, size := utf8.DecodeRuneInString(content[start:])
			next = start + size
		}
		start = next
	}

	return chunks
}

// findSplitPoint looks backwards from the size limit for the best separator,
// so chunks end at sentence or paragraph boundaries where possible. When no
// separator appears in the window the cut is snapped to a rune boundary so a
// multi-byte rune is never split across chunks.
func (c *Chunker) findSplitPoint(content string, start, limit int) int {
	window := content[start:limit]
	for _, sep := range c.config.Separators {
		if idx := strings.LastIndex(window, sep); idx > 0 {
			// Keep the separator with the leading chunk.
			return start + idx + len(sep)
		}
	}
	limit = snapToRuneStart(content, limit)
	if limit <= start {
		_, size := utf8.DecodeRuneInString(content[start:])
		limit = start + size
	}
	return limit
}

// snapToRuneStart walks a byte offset back to the start of the rune it lands
// in. Offsets at or before 0 are returned unchanged.
func snapToRuneStart(s string, i int) int {
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

func (c *Chunker) countTokens(text string) int {
	if c.encoder == nil {
		// Rough heuristic: ~4 characters per token for English text.
		return (len(text) + 3) / 4
	}
	return len(c.encoder.Encode(text, nil, nil))
}
