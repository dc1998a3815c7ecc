package agents

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prepgraph/prepgraph/pkg/graph"
	"github.com/prepgraph/prepgraph/pkg/ingest"
	"github.com/prepgraph/prepgraph/pkg/llms"
	"github.com/prepgraph/prepgraph/pkg/tools"
)

// analysisAgent is the shared shape of the document analysis agents: read
// the conversation, generate an analysis with the model, store it as an
// immutable record and report it back into the history.
type analysisAgent struct {
	name        string
	description string
	instruction string
	resultType  string
	llm         llms.LLMProvider
	tools       *tools.ToolRegistry
}

func (a *analysisAgent) Name() string {
	return a.name
}

func (a *analysisAgent) Description() string {
	return a.description
}

func (a *analysisAgent) Invoke(ctx context.Context, state *graph.ExecutionState) ([]graph.Message, error) {
	messages := []llms.Message{
		{Role: llms.RoleSystem, Content: a.instruction},
		{Role: llms.RoleUser, Content: "Conversation so far:\n" + renderTranscript(state)},
	}

	analysis, tokens, err := a.llm.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%s generation failed: %w", a.resultType, err)
	}
	slog.Debug("Generated analysis",
		"agent", a.name,
		"type", a.resultType,
		"tokens", tokens)

	a.storeResult(ctx, state, analysis)

	return []graph.Message{agentMessage(a.name, analysis)}, nil
}

// storeResult persists the analysis. Storage trouble is logged and does not
// fail the dispatch; the analysis still lands in the history.
func (a *analysisAgent) storeResult(ctx context.Context, state *graph.ExecutionState, analysis string) {
	args := map[string]interface{}{
		"agent_name":  a.name,
		"result_type": a.resultType,
		"content":     analysis,
	}
	if filePath, ok := UploadPath(state); ok {
		args["doc_id"] = ingest.DocID(filePath)
	}

	result, err := a.tools.Execute(ctx, tools.StoreAnalysisToolName, args)
	if err != nil {
		slog.Warn("Failed to store analysis result", "agent", a.name, "error", err)
		return
	}
	if !result.Success {
		slog.Warn("Failed to store analysis result", "agent", a.name, "error", result.Error)
	}
}

// NewSummarizerAgent creates the study-notes summarizer. An empty
// instruction selects the built-in template.
func NewSummarizerAgent(llm llms.LLMProvider, toolReg *tools.ToolRegistry, instruction string) graph.Agent {
	if instruction == "" {
		instruction = summarizerInstruction
	}
	return &analysisAgent{
		name:        SummarizerAgentName,
		description: "Summarizes ingested document text into structured study notes. Requires the document to be ingested first.",
		instruction: instruction,
		resultType:  "summary",
		llm:         llm,
		tools:       toolReg,
	}
}

// NewPYQSyllabusAnalysisAgent creates the previous-year-questions and
// syllabus trend analyzer.
func NewPYQSyllabusAnalysisAgent(llm llms.LLMProvider, toolReg *tools.ToolRegistry, instruction string) graph.Agent {
	if instruction == "" {
		instruction = trendsInstruction
	}
	return &analysisAgent{
		name:        PYQSyllabusAnalysisName,
		description: "Analyzes previous year question papers or syllabi for recurring topics, weightage and study priorities. Requires the document to be ingested first.",
		instruction: instruction,
		resultType:  "trend_analysis",
		llm:         llm,
		tools:       toolReg,
	}
}
