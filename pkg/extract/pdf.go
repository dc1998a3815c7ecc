package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// pdfExtractor extracts text from PDF documents page by page.
type pdfExtractor struct{}

func (p *pdfExtractor) CanExtract(filePath string) bool {
	return hasExtension(filePath, ".pdf")
}

func (p *pdfExtractor) SupportedExtensions() []string {
	return []string{".pdf"}
}

func (p *pdfExtractor) Extract(ctx context.Context, filePath string) (*Result, error) {
	start := time.Now()

	info, err := os.Stat(filePath)
	if err != nil {
		return failedResult(start, "failed to stat PDF file: %v", err), nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return failedResult(start, "failed to open PDF file: %v", err), nil
	}
	defer file.Close()

	reader, err := pdf.NewReader(file, info.Size())
	if err != nil {
		return failedResult(start, "failed to parse PDF: %v", err), nil
	}

	var contentParts []string
	totalPages := reader.NumPage()

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		select {
		case <-ctx.Done():
			return failedResult(start, "context cancelled"), ctx.Err()
		default:
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			contentParts = append(contentParts, fmt.Sprintf("--- Page %d (extraction failed: %v) ---", pageNum, err))
			continue
		}

		if strings.TrimSpace(text) != "" {
			contentParts = append(contentParts, fmt.Sprintf("--- Page %d ---\n%s", pageNum, text))
		}
	}

	content := strings.Join(contentParts, "\n\n")
	title := filepath.Base(filePath)

	return &Result{
		Success: true,
		Content: content,
		Title:   title,
		Metadata: map[string]string{
			"title":      title,
			"type":       "PDF Document",
			"pages":      fmt.Sprintf("%d", totalPages),
			"word_count": fmt.Sprintf("%d", len(strings.Fields(content))),
		},
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}
