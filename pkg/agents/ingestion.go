package agents

import (
	"context"
	"fmt"

	"github.com/prepgraph/prepgraph/pkg/graph"
	"github.com/prepgraph/prepgraph/pkg/ingest"
	"github.com/prepgraph/prepgraph/pkg/tools"
)

// DocumentIngestionAgent extracts, chunks and stores an uploaded document,
// then reports the extracted text into the history so downstream agents can
// work on it without re-reading the file.
type DocumentIngestionAgent struct {
	tools *tools.ToolRegistry
}

func NewDocumentIngestionAgent(tools *tools.ToolRegistry) *DocumentIngestionAgent {
	return &DocumentIngestionAgent{tools: tools}
}

func (a *DocumentIngestionAgent) Name() string {
	return DocumentIngestionAgentName
}

func (a *DocumentIngestionAgent) Description() string {
	return "Processes an uploaded document (PDF, DOCX, XLSX, TXT): extracts its text, chunks it and stores it in the vector database. Must run before any document analysis."
}

// Invoke degrades failures to a message in the history instead of erroring:
// the supervisor sees what went wrong and can route to end.
func (a *DocumentIngestionAgent) Invoke(ctx context.Context, state *graph.ExecutionState) ([]graph.Message, error) {
	filePath, ok := UploadPath(state)
	if !ok {
		return []graph.Message{agentMessage(a.Name(), "Error: no uploaded file found in the conversation.")}, nil
	}

	result, err := a.tools.Execute(ctx, tools.ProcessDocumentToolName, map[string]interface{}{
		"file_path": filePath,
	})
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return []graph.Message{agentMessage(a.Name(),
			fmt.Sprintf("Error processing document: %s", result.Error))}, nil
	}

	ingested, ok := result.Output.(*ingest.Result)
	if !ok {
		return nil, fmt.Errorf("unexpected output type from %s", tools.ProcessDocumentToolName)
	}

	content := fmt.Sprintf(
		"Processed document '%s' (doc_id=%s, %d chunks stored).\n\nExtracted text:\n%s",
		ingested.FileName, ingested.DocID, ingested.NumChunks, ingested.ExtractedText)

	return []graph.Message{agentMessage(a.Name(), content)}, nil
}
