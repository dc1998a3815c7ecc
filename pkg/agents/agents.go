// Package agents implements the worker agents routed by the supervisor loop,
// the supervisor itself, and the question-answering agent that runs outside
// the graph.
package agents

import (
	"fmt"
	"strings"

	"github.com/prepgraph/prepgraph/pkg/graph"
)

// Worker agent names. These are the registry keys the supervisor routes to.
const (
	DocumentIngestionAgentName = "document_ingestion_agent"
	SummarizerAgentName        = "summarizer_agent"
	PYQSyllabusAnalysisName    = "pyq_syllabus_analysis_agent"
	YoutubeVideoSummarizerName = "youtube_video_summarizer_agent"
	StoreAnalysisAgentName     = "store_analysis_agent"
)

// Seed message prefixes produced by the runtime when a run is triggered.
const (
	fileUploadPrefix = "New file uploaded: "
	videoLinkPrefix  = "New video link: "
)

// renderTranscript flattens the shared history into prompt text, prefixing
// each line with its producer so the model can follow who said what.
func renderTranscript(state *graph.ExecutionState) string {
	var b strings.Builder
	for _, msg := range state.Messages {
		label := string(msg.Role)
		if msg.Name != "" {
			label = msg.Name
		}
		fmt.Fprintf(&b, "[%s] %s\n", label, msg.Content)
	}
	return b.String()
}

// seedValue scans the history for the most recent user message carrying the
// given seed prefix and returns the value after it.
func seedValue(state *graph.ExecutionState, prefix string) (string, bool) {
	for i := len(state.Messages) - 1; i >= 0; i-- {
		msg := state.Messages[i]
		if msg.Role != graph.RoleUser {
			continue
		}
		if strings.HasPrefix(msg.Content, prefix) {
			value := strings.TrimSpace(strings.TrimPrefix(msg.Content, prefix))
			if value != "" {
				return value, true
			}
		}
	}
	return "", false
}

// UploadPath extracts the uploaded file path from the seed message.
func UploadPath(state *graph.ExecutionState) (string, bool) {
	return seedValue(state, fileUploadPrefix)
}

// VideoURL extracts the video link from the seed message.
func VideoURL(state *graph.ExecutionState) (string, bool) {
	return seedValue(state, videoLinkPrefix)
}

// FileSeed builds the seed message for a document upload.
func FileSeed(filePath string) graph.Message {
	return graph.Message{Role: graph.RoleUser, Content: fileUploadPrefix + filePath}
}

// VideoSeed builds the seed message for a video link.
func VideoSeed(videoURL string) graph.Message {
	return graph.Message{Role: graph.RoleUser, Content: videoLinkPrefix + videoURL}
}

func agentMessage(name, content string) graph.Message {
	return graph.Message{Role: graph.RoleAgent, Name: name, Content: content}
}
