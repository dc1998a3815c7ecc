// Package extract provides native text extraction for uploaded study
// material (PDF, DOCX, XLSX, plain text). Extraction failures are reported as tagged
// results, never panics, so ingestion can degrade gracefully.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Result is the outcome of one extraction attempt.
type Result struct {
	Success          bool              `json:"success"`
	Content          string            `json:"content,omitempty"`
	Title            string            `json:"title,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	Error            string            `json:"error,omitempty"`
	ProcessingTimeMs int64             `json:"processing_time_ms"`
}

// Extractor extracts text from one family of file formats.
type Extractor interface {
	CanExtract(filePath string) bool
	Extract(ctx context.Context, filePath string) (*Result, error)
	SupportedExtensions() []string
}

// Registry dispatches extraction to the first extractor claiming a file.
type Registry struct {
	extractors []Extractor
}

// NewRegistry creates a registry with the built-in extractors.
func NewRegistry() *Registry {
	return &Registry{
		extractors: []Extractor{
			&pdfExtractor{},
			&docxExtractor{},
			&xlsxExtractor{},
			&textExtractor{},
		},
	}
}

// Extract finds the matching extractor and runs it. Unsupported extensions
// yield a failed Result, not an error.
func (r *Registry) Extract(ctx context.Context, filePath string) (*Result, error) {
	for _, extractor := range r.extractors {
		if extractor.CanExtract(filePath) {
			return extractor.Extract(ctx, filePath)
		}
	}
	return &Result{
		Success: false,
		Error:   fmt.Sprintf("unsupported file type: %s", filepath.Ext(filePath)),
	}, nil
}

// SupportedExtensions returns all extensions the registry handles.
func (r *Registry) SupportedExtensions() []string {
	var out []string
	for _, extractor := range r.extractors {
		out = append(out, extractor.SupportedExtensions()...)
	}
	return out
}

// Supports reports whether the file extension is handled.
func (r *Registry) Supports(filePath string) bool {
	for _, extractor := range r.extractors {
		if extractor.CanExtract(filePath) {
			return true
		}
	}
	return false
}

func hasExtension(filePath string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func failedResult(start time.Time, format string, args ...interface{}) *Result {
	return &Result{
		Success:          false,
		Error:            fmt.Sprintf(format, args...),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
}
