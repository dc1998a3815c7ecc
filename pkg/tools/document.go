package tools

import (
	"context"
	"time"

	"github.com/prepgraph/prepgraph/pkg/ingest"
)

const ProcessDocumentToolName = "process_document"

// ProcessDocumentTool runs the full ingestion pipeline for one file:
// extract, chunk, embed and store.
type ProcessDocumentTool struct {
	pipeline *ingest.Pipeline
}

func NewProcessDocumentTool(p *ingest.Pipeline) *ProcessDocumentTool {
	return &ProcessDocumentTool{pipeline: p}
}

func (t *ProcessDocumentTool) GetName() string {
	return ProcessDocumentToolName
}

func (t *ProcessDocumentTool) GetInfo() ToolInfo {
	return ToolInfo{
		Name:        ProcessDocumentToolName,
		Description: "Extract text from a document (PDF, DOCX, XLSX, TXT), chunk it, embed it and store the chunks in the vector database.",
		Parameters: []ToolParameter{
			{Name: "file_path", Type: "string", Description: "Path to the document to process.", Required: true},
		},
	}
}

func (t *ProcessDocumentTool) Execute(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
	start := time.Now()

	filePath := stringArg(args, "file_path")
	if filePath == "" {
		return failureResult(ProcessDocumentToolName, "file_path is required", time.Since(start)), nil
	}

	result, err := t.pipeline.Process(ctx, filePath)
	if err != nil {
		return failureResult(ProcessDocumentToolName, err.Error(), time.Since(start)), nil
	}

	return successResult(ProcessDocumentToolName, "", result, time.Since(start)), nil
}
