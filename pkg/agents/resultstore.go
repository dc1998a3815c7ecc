package agents

import (
	"context"
	"fmt"

	"github.com/prepgraph/prepgraph/pkg/graph"
	"github.com/prepgraph/prepgraph/pkg/ingest"
	"github.com/prepgraph/prepgraph/pkg/tools"
	"github.com/prepgraph/prepgraph/pkg/youtube"
)

// resultTypes maps analysis producers to the record type stored for them.
var resultTypes = map[string]string{
	SummarizerAgentName:        "summary",
	PYQSyllabusAnalysisName:    "trend_analysis",
	YoutubeVideoSummarizerName: "video_summary",
}

// StoreAnalysisAgent persists the most recent analysis from the history as
// an immutable record. It uses no LLM; it exists so the supervisor can
// explicitly request persistence of whatever analysis was produced last.
type StoreAnalysisAgent struct {
	tools *tools.ToolRegistry
}

func NewStoreAnalysisAgent(toolReg *tools.ToolRegistry) *StoreAnalysisAgent {
	return &StoreAnalysisAgent{tools: toolReg}
}

func (a *StoreAnalysisAgent) Name() string {
	return StoreAnalysisAgentName
}

func (a *StoreAnalysisAgent) Description() string {
	return "Stores the most recent analysis result from the conversation into the vector database. Use after an analysis agent has produced output."
}

func (a *StoreAnalysisAgent) Invoke(ctx context.Context, state *graph.ExecutionState) ([]graph.Message, error) {
	producer, content, ok := latestAnalysis(state)
	if !ok {
		return []graph.Message{agentMessage(a.Name(),
			"Error: no analysis result found in the conversation to store.")}, nil
	}

	args := map[string]interface{}{
		"agent_name":  producer,
		"result_type": resultTypes[producer],
		"content":     content,
	}
	if filePath, ok := UploadPath(state); ok {
		args["doc_id"] = ingest.DocID(filePath)
	} else if videoURL, ok := VideoURL(state); ok {
		if videoID, err := youtube.ParseVideoID(videoURL); err == nil {
			args["doc_id"] = videoID
		}
	}

	result, err := a.tools.Execute(ctx, tools.StoreAnalysisToolName, args)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return []graph.Message{agentMessage(a.Name(),
			fmt.Sprintf("Error storing analysis result: %s", result.Error))}, nil
	}

	return []graph.Message{agentMessage(a.Name(), result.Content)}, nil
}

// latestAnalysis returns the most recent message produced by an analysis
// agent, newest first.
func latestAnalysis(state *graph.ExecutionState) (producer, content string, ok bool) {
	for i := len(state.Messages) - 1; i >= 0; i-- {
		msg := state.Messages[i]
		if msg.Role != graph.RoleAgent {
			continue
		}
		if _, isAnalysis := resultTypes[msg.Name]; isAnalysis {
			return msg.Name, msg.Content, true
		}
	}
	return "", "", false
}
