package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// textExtractor handles plain text formats by reading them directly.
type textExtractor struct{}

func (e *textExtractor) CanExtract(filePath string) bool {
	return hasExtension(filePath, e.SupportedExtensions()...)
}

func (e *textExtractor) SupportedExtensions() []string {
	return []string{".txt", ".md"}
}

func (e *textExtractor) Extract(ctx context.Context, filePath string) (*Result, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return failedResult(start, "failed to read file: %v", err), nil
	}
	if !utf8.Valid(data) {
		return failedResult(start, "file is not valid UTF-8 text: %s", filePath), nil
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return failedResult(start, "file is empty: %s", filePath), nil
	}

	return &Result{
		Success:          true,
		Content:          content,
		Title:            strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath)),
		Metadata:         map[string]string{"format": "text"},
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}
