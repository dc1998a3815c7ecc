package agents

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prepgraph/prepgraph/pkg/graph"
	"github.com/prepgraph/prepgraph/pkg/llms"
	"github.com/prepgraph/prepgraph/pkg/tools"
	"github.com/prepgraph/prepgraph/pkg/youtube"
)

// YoutubeVideoSummarizerAgent fetches a video transcript and summarizes it
// into study notes, storing the result keyed by video ID.
type YoutubeVideoSummarizerAgent struct {
	llm         llms.LLMProvider
	tools       *tools.ToolRegistry
	instruction string
}

// NewYoutubeVideoSummarizerAgent creates the video summarizer. An empty
// instruction selects the built-in template.
func NewYoutubeVideoSummarizerAgent(llm llms.LLMProvider, toolReg *tools.ToolRegistry, instruction string) *YoutubeVideoSummarizerAgent {
	if instruction == "" {
		instruction = videoInstruction
	}
	return &YoutubeVideoSummarizerAgent{llm: llm, tools: toolReg, instruction: instruction}
}

func (a *YoutubeVideoSummarizerAgent) Name() string {
	return YoutubeVideoSummarizerName
}

func (a *YoutubeVideoSummarizerAgent) Description() string {
	return "Fetches a YouTube video transcript and summarizes it into study notes. Use when the conversation contains a video link."
}

// Invoke degrades transcript failures to a message so the supervisor can
// route to end instead of aborting the run.
func (a *YoutubeVideoSummarizerAgent) Invoke(ctx context.Context, state *graph.ExecutionState) ([]graph.Message, error) {
	videoURL, ok := VideoURL(state)
	if !ok {
		return []graph.Message{agentMessage(a.Name(), "Error: no video link found in the conversation.")}, nil
	}

	result, err := a.tools.Execute(ctx, tools.TranscriptToolName, map[string]interface{}{
		"video_url": videoURL,
	})
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return []graph.Message{agentMessage(a.Name(),
			fmt.Sprintf("Error fetching transcript: %s", result.Error))}, nil
	}

	messages := []llms.Message{
		{Role: llms.RoleSystem, Content: a.instruction},
		{Role: llms.RoleUser, Content: "Video transcript:\n" + result.Content},
	}
	summary, tokens, err := a.llm.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("video summary generation failed: %w", err)
	}
	slog.Debug("Generated video summary", "tokens", tokens)

	a.storeResult(ctx, videoURL, summary)

	return []graph.Message{agentMessage(a.Name(), summary)}, nil
}

func (a *YoutubeVideoSummarizerAgent) storeResult(ctx context.Context, videoURL, summary string) {
	args := map[string]interface{}{
		"agent_name":  a.Name(),
		"result_type": "video_summary",
		"content":     summary,
	}
	if videoID, err := youtube.ParseVideoID(videoURL); err == nil {
		args["doc_id"] = videoID
	}

	result, err := a.tools.Execute(ctx, tools.StoreAnalysisToolName, args)
	if err != nil {
		slog.Warn("Failed to store video summary", "error", err)
		return
	}
	if !result.Success {
		slog.Warn("Failed to store video summary", "error", result.Error)
	}
}
