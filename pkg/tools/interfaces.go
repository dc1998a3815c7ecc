// Package tools defines the typed function boundary agents may invoke:
// storing and retrieving analysis artifacts, processing documents, and
// fetching video transcripts.
package tools

import (
	"context"
	"time"
)

type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ToolParameter `json:"parameters,omitempty"`
}

type ToolParameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// ToolResult is the tagged outcome of one tool execution. Failures are
// carried in Error with Success=false; tools only return a Go error for
// programmer mistakes (bad argument types), never backend trouble.
type ToolResult struct {
	Success       bool                   `json:"success"`
	Content       string                 `json:"content,omitempty"`
	Output        interface{}            `json:"output,omitempty"`
	Error         string                 `json:"error,omitempty"`
	ToolName      string                 `json:"tool_name"`
	ExecutionTime time.Duration          `json:"execution_time,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

type Tool interface {
	GetInfo() ToolInfo

	Execute(ctx context.Context, args map[string]interface{}) (ToolResult, error)

	GetName() string
}

func successResult(name, content string, output interface{}, elapsed time.Duration) ToolResult {
	return ToolResult{
		Success:       true,
		Content:       content,
		Output:        output,
		ToolName:      name,
		ExecutionTime: elapsed,
	}
}

func failureResult(name, errMsg string, elapsed time.Duration) ToolResult {
	return ToolResult{
		Success:       false,
		Error:         errMsg,
		ToolName:      name,
		ExecutionTime: elapsed,
	}
}

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func intArg(args map[string]interface{}, key string, fallback int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}

func mapArg(args map[string]interface{}, key string) map[string]interface{} {
	if v, ok := args[key].(map[string]interface{}); ok {
		return v
	}
	return nil
}
