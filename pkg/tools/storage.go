package tools

import (
	"context"
	"time"

	"github.com/prepgraph/prepgraph/pkg/store"
)

const (
	StoreAnalysisToolName    = "store_analysis_result"
	RetrieveAnalysisToolName = "retrieve_analysis"
)

// StoreAnalysisTool appends an analysis artifact to the persistent store.
// Fire-and-forget: duplicate stores create duplicate records.
type StoreAnalysisTool struct {
	store *store.AnalysisStore
}

func NewStoreAnalysisTool(s *store.AnalysisStore) *StoreAnalysisTool {
	return &StoreAnalysisTool{store: s}
}

func (t *StoreAnalysisTool) GetName() string {
	return StoreAnalysisToolName
}

func (t *StoreAnalysisTool) GetInfo() ToolInfo {
	return ToolInfo{
		Name:        StoreAnalysisToolName,
		Description: "Store an analysis result (summary, trend analysis, video summary) into the vector database with metadata for later retrieval.",
		Parameters: []ToolParameter{
			{Name: "agent_name", Type: "string", Description: "Name of the agent storing the result.", Required: true},
			{Name: "result_type", Type: "string", Description: "Type of result, e.g. 'summary', 'trend_analysis', 'video_summary'.", Required: true},
			{Name: "content", Type: "string", Description: "The analysis content to store (JSON or plain text).", Required: true},
			{Name: "doc_id", Type: "string", Description: "Optional document ID this analysis refers to.", Required: false},
			{Name: "metadata", Type: "object", Description: "Optional extra metadata to index with the record.", Required: false},
		},
	}
}

func (t *StoreAnalysisTool) Execute(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
	start := time.Now()

	content, err := store.ContentText(args["content"])
	if err != nil {
		return failureResult(StoreAnalysisToolName, err.Error(), time.Since(start)), nil
	}

	confirmation, err := t.store.Store(ctx, store.AnalysisRecord{
		AgentName:  stringArg(args, "agent_name"),
		ResultType: stringArg(args, "result_type"),
		Content:    content,
		DocID:      stringArg(args, "doc_id"),
		Metadata:   mapArg(args, "metadata"),
	})
	if err != nil {
		return failureResult(StoreAnalysisToolName, err.Error(), time.Since(start)), nil
	}

	return successResult(StoreAnalysisToolName, confirmation, nil, time.Since(start)), nil
}

// RetrieveAnalysisTool queries stored analyses by similarity with an
// optional metadata filter. Backend failures degrade to an empty result
// list inside the store, so this tool never reports failure for them.
type RetrieveAnalysisTool struct {
	store *store.AnalysisStore
}

func NewRetrieveAnalysisTool(s *store.AnalysisStore) *RetrieveAnalysisTool {
	return &RetrieveAnalysisTool{store: s}
}

func (t *RetrieveAnalysisTool) GetName() string {
	return RetrieveAnalysisToolName
}

func (t *RetrieveAnalysisTool) GetInfo() ToolInfo {
	return ToolInfo{
		Name:        RetrieveAnalysisToolName,
		Description: "Retrieve relevant stored analyses from the vector database. Optionally filter by metadata like {'type': 'summary'} or {'doc_id': 'XYZ'}.",
		Parameters: []ToolParameter{
			{Name: "query", Type: "string", Description: "Query to retrieve relevant analyses.", Required: true},
			{Name: "k", Type: "integer", Description: "Number of top matches to return.", Required: false},
			{Name: "filter", Type: "object", Description: "Optional metadata filter.", Required: false},
		},
	}
}

func (t *RetrieveAnalysisTool) Execute(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
	start := time.Now()

	query := stringArg(args, "query")
	if query == "" {
		return failureResult(RetrieveAnalysisToolName, "query is required", time.Since(start)), nil
	}

	result := t.store.Retrieve(ctx, query, intArg(args, "k", 5), mapArg(args, "filter"))
	return successResult(RetrieveAnalysisToolName, "", result, time.Since(start)), nil
}
