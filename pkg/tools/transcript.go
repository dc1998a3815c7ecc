package tools

import (
	"context"
	"time"

	"github.com/prepgraph/prepgraph/pkg/youtube"
)

const TranscriptToolName = "get_video_transcript"

// TranscriptTool fetches the transcript text for a YouTube video.
type TranscriptTool struct {
	client *youtube.Client
}

func NewTranscriptTool(c *youtube.Client) *TranscriptTool {
	return &TranscriptTool{client: c}
}

func (t *TranscriptTool) GetName() string {
	return TranscriptToolName
}

func (t *TranscriptTool) GetInfo() ToolInfo {
	return ToolInfo{
		Name:        TranscriptToolName,
		Description: "Fetch the transcript of a YouTube video given its URL or video ID.",
		Parameters: []ToolParameter{
			{Name: "video_url", Type: "string", Description: "YouTube video URL or bare 11-character video ID.", Required: true},
		},
	}
}

func (t *TranscriptTool) Execute(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
	start := time.Now()

	videoURL := stringArg(args, "video_url")
	if videoURL == "" {
		return failureResult(TranscriptToolName, "video_url is required", time.Since(start)), nil
	}

	transcript, err := t.client.FetchTranscript(ctx, videoURL)
	if err != nil {
		return failureResult(TranscriptToolName, err.Error(), time.Since(start)), nil
	}

	return successResult(TranscriptToolName, transcript, nil, time.Since(start)), nil
}
