package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyenthenguyen/docx"
	"github.com/xuri/excelize/v2"
)

// docxExtractor extracts text from Word documents.
type docxExtractor struct{}

func (d *docxExtractor) CanExtract(filePath string) bool {
	return hasExtension(filePath, ".docx")
}

func (d *docxExtractor) SupportedExtensions() []string {
	return []string{".docx"}
}

func (d *docxExtractor) Extract(ctx context.Context, filePath string) (*Result, error) {
	start := time.Now()

	doc, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return failedResult(start, "failed to parse Word document: %v", err), nil
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	title := filepath.Base(filePath)

	return &Result{
		Success: true,
		Content: content,
		Title:   title,
		Metadata: map[string]string{
			"title":      title,
			"type":       "Word Document",
			"paragraphs": fmt.Sprintf("%d", len(strings.Split(content, "\n\n"))),
		},
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

// xlsxExtractor extracts cell text from Excel spreadsheets, sheet by sheet.
type xlsxExtractor struct{}

func (x *xlsxExtractor) CanExtract(filePath string) bool {
	return hasExtension(filePath, ".xlsx")
}

func (x *xlsxExtractor) SupportedExtensions() []string {
	return []string{".xlsx"}
}

func (x *xlsxExtractor) Extract(ctx context.Context, filePath string) (*Result, error) {
	start := time.Now()

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return failedResult(start, "failed to parse Excel document: %v", err), nil
	}
	defer f.Close()

	var contentParts []string
	sheets := f.GetSheetList()

	for _, sheetName := range sheets {
		select {
		case <-ctx.Done():
			return failedResult(start, "context cancelled"), ctx.Err()
		default:
		}

		rows, err := f.GetRows(sheetName)
		if err != nil {
			contentParts = append(contentParts, fmt.Sprintf("--- Sheet: %s (read failed: %v) ---", sheetName, err))
			continue
		}

		var sheetText strings.Builder
		sheetText.WriteString(fmt.Sprintf("--- Sheet: %s ---\n", sheetName))
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, "\t"))
			if line != "" {
				sheetText.WriteString(line)
				sheetText.WriteString("\n")
			}
		}
		contentParts = append(contentParts, strings.TrimSpace(sheetText.String()))
	}

	title := filepath.Base(filePath)

	return &Result{
		Success: true,
		Content: strings.Join(contentParts, "\n\n"),
		Title:   title,
		Metadata: map[string]string{
			"title":  title,
			"type":   "Excel Spreadsheet",
			"sheets": fmt.Sprintf("%d", len(sheets)),
		},
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}
